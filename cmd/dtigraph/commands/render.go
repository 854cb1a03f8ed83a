package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/DrSkyle/dtigraph/pkg/engine"
	"github.com/DrSkyle/dtigraph/pkg/engine/report"
	"github.com/spf13/cobra"
)

func newRenderCmd(o *options) *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the DTI graph of one drug as a PNG",
		Long: `Load the interaction table, similarity and historical mappings, join them
around one drug and save dti_graph_<drug>.png in the output directory.

Without --drug the first drug of the interaction table is used.

Example:
  dtigraph render
  dtigraph render --drug DB00811 --out s3://screens/graphs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.engineConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg.Format = "png"
			return run(cmd, cfg, pick)
		},
	}

	addGraphFlags(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose the drug interactively")
	return cmd
}

// addGraphFlags registers the flags shared by render and export.
func addGraphFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("drug", "", "Focal drug id or name (default: first drug of the DTI table)")
	f.Bool("no-filter", false, "Keep historical targets outside the previous coronavirus list")
	f.String("rules", "", "YAML file of CEL edge rules")
	f.String("id-to-name", "", "Drug id to display name table (.pkl, .yaml, .json)")
	f.String("name-to-id", "", "Display name to drug id table (.pkl, .yaml, .json)")
	f.Bool("target-labels", false, "Break target labels on whitespace")
}

// run executes the engine and prints the summary. A missing drug is reported
// and is not an error.
func run(cmd *cobra.Command, cfg engine.Config, pick bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	eng, err := engine.New(ctx,
		engine.WithLogger(cfg.Logger),
		engine.WithConfig(cfg),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer eng.Close(ctx)

	drug := cfg.Drug
	if pick {
		in, err := eng.Interactions(ctx)
		if err != nil {
			return err
		}
		drug, err = PromptForDrug(in.Drugs)
		if err != nil {
			return err
		}
		if drug == "" {
			fmt.Fprintln(out, "No drug selected.")
			return nil
		}
	}

	res, err := eng.Run(ctx, drug)
	if errors.Is(err, engine.ErrDrugNotFound) {
		printMissingDrug(out, drug)
		return nil
	}
	if err != nil {
		return err
	}

	report.WriteSummary(out, res.Summary())
	return nil
}

func printMissingDrug(w io.Writer, drug string) {
	fmt.Fprintf(w, "%s is not in the DTI table; nothing was drawn.\n", drug)
}
