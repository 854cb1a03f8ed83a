package commands

import (
	"github.com/DrSkyle/dtigraph/pkg/engine/report"
	"github.com/spf13/cobra"
)

func newExportCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the DTI graph of one drug (DOT, JSON, CSV)",
		Long: `Build the same graph as render and write it as dti_graph_<drug>.<format>
instead of an image.

Default output directory: ./dtigraph-out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.engineConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if _, err := report.ParseFormat(cfg.Format); err != nil {
				return err
			}
			return run(cmd, cfg, false)
		},
	}

	addGraphFlags(cmd)
	cmd.Flags().String("format", string(report.FormatDOT), "Export format: dot, json or csv")
	return cmd
}
