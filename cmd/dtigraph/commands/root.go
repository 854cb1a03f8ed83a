package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/config"
	"github.com/DrSkyle/dtigraph/pkg/engine"
	"github.com/DrSkyle/dtigraph/pkg/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// options is the state shared by the commands of one invocation.
type options struct {
	cfgFile string
	v       *viper.Viper
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: "Drug-target interaction graph renderer",
		Long: `dtigraph - Drug-Target Interaction Graphs

Join predicted interactions, drug similarities and previous coronavirus
targets around one drug and draw them as a layered graph.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig(cmd)
		},
	}

	paths := config.DefaultPaths()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "Config file (default $HOME/.dtigraph.yaml)")
	pf.String("dti", paths.DTI, "Path of the predicted DTI table")
	pf.String("ddi", paths.DDI, "Path of the drug similarity mapping")
	pf.String("pdti", paths.PrevDTI, "Path of the historical DTI mapping")
	pf.String("pcov", paths.PrevCov, "Path of the previous coronavirus target list")
	pf.String("out", paths.Output, "Output directory or s3://bucket/prefix")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("json-logs", false, "Emit logs as JSON")
	pf.String("otel-endpoint", "", "OTLP/HTTP endpoint for traces")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd.OutOrStdout(), cmd)
	})

	rootCmd.AddCommand(newRenderCmd(o))
	rootCmd.AddCommand(newExportCmd(o))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func (o *options) initConfig(cmd *cobra.Command) error {
	v := o.v
	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.SetConfigFile(filepath.Join(home, ".dtigraph.yaml"))
			v.SetConfigType("yaml")
		}
	}

	v.SetEnvPrefix("DTIGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "config", "help", "pick", "version":
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return bindErr
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist.
		if o.cfgFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// setDefaults registers every key so environment variables reach nested fields.
func setDefaults(v *viper.Viper) {
	d := engine.DefaultConfig()
	v.SetDefault("columns.target", d.Columns.Target)
	v.SetDefault("columns.drug", d.Columns.Drug)
	v.SetDefault("columns.affinity", d.Columns.Affinity)
	v.SetDefault("columns.prev_cov", d.Columns.PrevCov)
	v.SetDefault("render.size_inches", d.Render.SizeInches)
	v.SetDefault("render.label_offset", d.Render.LabelOffset)
	v.SetDefault("render.bounds_pad", d.Render.BoundsPad)
	v.SetDefault("render.node_radius", d.Render.NodeRadius)
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("id_to_name", "")
	v.SetDefault("name_to_id", "")
	v.SetDefault("rules", "")
}

// engineConfig decodes the merged flags, file and environment.
func (o *options) engineConfig(logOut io.Writer) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if err := o.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Logger = newLogger(logOut, cfg.Verbose, cfg.JsonLogs)
	return cfg, nil
}

func newLogger(w io.Writer, verbose, jsonLogs bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: engine.RedactSensitiveData}

	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func renderHelp(w io.Writer, cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("DTIGRAPH %s", version.Current)))
	fmt.Fprintln(w, "Drug-target interaction graph renderer.")

	fmt.Fprintln(w, titleStyle.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, titleStyle.Render("EXAMPLES"))
	fmt.Fprintln(w, "  dtigraph render                           # First drug of data/sample_dtis.csv")
	fmt.Fprintln(w, "  dtigraph render --drug DB00811 --no-filter")
	fmt.Fprintln(w, "  dtigraph export --format dot --out s3://bucket/graphs")
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, flagStyle.Render(output))
	})
	fmt.Fprintln(w)
}
