// Package loader reads the interaction table, the persisted similarity and
// historical mappings, and joins them around one focal drug.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/config"
)

var (
	ErrMalformedScore    = errors.New("malformed score")
	ErrMissingColumn     = errors.New("missing column")
	ErrUnsupportedFormat = errors.New("unsupported mapping format")
	ErrMalformedMapping  = errors.New("malformed mapping")
)

// TargetScore is one predicted interaction of a drug.
type TargetScore struct {
	Target   string  `json:"target"`
	Affinity float64 `json:"affinity"`
}

// Interactions is the DTI table grouped by drug.
type Interactions struct {
	// ByDrug holds every row of a drug in file order. Duplicates are kept.
	ByDrug map[string][]TargetScore
	// Targets and Drugs are the distinct ids in first-seen order.
	Targets []string
	Drugs   []string
}

// For returns the interactions of drug in file order.
func (in *Interactions) For(drug string) []TargetScore {
	return in.ByDrug[drug]
}

// HasDrug reports whether drug appears in the table.
func (in *Interactions) HasDrug(drug string) bool {
	_, ok := in.ByDrug[drug]
	return ok
}

// LoadInteractions reads a delimited DTI table with a header row.
func LoadInteractions(r io.Reader, cols config.Columns, tr *Translation) (*Interactions, error) {
	cols = cols.WithDefaults()

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty interaction table: %w: %s", ErrMissingColumn, cols.Target)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx, err := columnIndex(header, cols.Target, cols.Drug, cols.Affinity)
	if err != nil {
		return nil, err
	}
	ti, di, ai := idx[0], idx[1], idx[2]

	out := &Interactions{ByDrug: make(map[string][]TargetScore)}
	seenTarget := make(map[string]bool)
	seenDrug := make(map[string]bool)

	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		raw := strings.TrimSpace(rec[ai])
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %s=%q", row, ErrMalformedScore, cols.Affinity, raw)
		}

		target := tr.Target(rec[ti])
		drug := tr.DrugName(rec[di])

		if !seenTarget[target] {
			seenTarget[target] = true
			out.Targets = append(out.Targets, target)
		}
		if !seenDrug[drug] {
			seenDrug[drug] = true
			out.Drugs = append(out.Drugs, drug)
		}
		out.ByDrug[drug] = append(out.ByDrug[drug], TargetScore{Target: target, Affinity: Round4(score)})
	}

	return out, nil
}

// LoadReferenceTargets reads the previous-coronavirus target list. The
// column is looked up by name; a single-column table is read whatever its
// header says.
func LoadReferenceTargets(r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = config.DefaultColumns().PrevCov
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty reference table: %w: %s", ErrMissingColumn, column)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	ci := 0
	if len(header) > 1 {
		idx, err := columnIndex(header, column)
		if err != nil {
			return nil, err
		}
		ci = idx[0]
	}

	var targets []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if ci < len(rec) && rec[ci] != "" {
			targets = append(targets, rec[ci])
		}
	}
	return targets, nil
}

func columnIndex(header []string, names ...string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	idx := make([]int, len(names))
	for i, n := range names {
		p, ok := pos[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
		idx[i] = p
	}
	return idx, nil
}
