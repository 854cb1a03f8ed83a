package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/engine/loader"
	"github.com/DrSkyle/dtigraph/pkg/graph"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF99")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00"))
)

// Summary is what a run prints about its inputs and output.
type Summary struct {
	Drug          string
	Targets       int
	Drugs         int
	DTISample     []loader.TargetScore
	DDISample     *loader.Similarity
	PrevSample    *loader.HistoricalEdge
	Stats         graph.Stats
	Location      string
	Retagged      []string
	DroppedByRule int
}

// WriteSummary prints s the way the command line shows it.
func WriteSummary(w io.Writer, s Summary) {
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
	}

	line("# of targets:", fmt.Sprintf("%d, # of drugs: %d", s.Targets, s.Drugs))
	line("dtis sample:", formatDTIs(s.DTISample))
	if s.DDISample != nil {
		line("ddis sample:", fmt.Sprintf("(%s, %s, %s)", s.DDISample.Drug, s.DDISample.Similar, graph.FormatWeight(s.DDISample.Score)))
	} else {
		line("ddis sample:", dimStyle.Render("none"))
	}
	if s.PrevSample != nil {
		line("prev_dtis sample:", fmt.Sprintf("(%s, %s, %d)", s.PrevSample.Target, s.PrevSample.Drug, int(s.PrevSample.Weight)))
	} else {
		line("prev_dtis sample:", dimStyle.Render("none"))
	}
	line("graph:", fmt.Sprintf("%d nodes, %d edges, %d components", s.Stats.Nodes, s.Stats.Edges, s.Stats.Components))
	if s.DroppedByRule > 0 {
		line("rules:", fmt.Sprintf("%d edges dropped", s.DroppedByRule))
	}
	if len(s.Retagged) > 0 {
		fmt.Fprintln(w, warnStyle.Render("warning: nodes in more than one layer: "+strings.Join(s.Retagged, ", ")))
	}
	if s.Location != "" {
		line("saved:", s.Location)
	}
}

func formatDTIs(ts []loader.TargetScore) string {
	if len(ts) == 0 {
		return dimStyle.Render("none")
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = fmt.Sprintf("(%s, %s)", t.Target, graph.FormatWeight(t.Affinity))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
