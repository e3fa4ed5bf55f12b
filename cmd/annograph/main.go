package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/annograph/am"
	"github.com/teranos/annograph/cmd/annograph/commands"
	"github.com/teranos/annograph/logger"
)

var rootCmd = &cobra.Command{
	Use:   "annograph",
	Short: "annograph - integrate and score annotation graphs",
	Long: `annograph - span-resolved annotation graphs over tokenized documents.

Edges produced by dependency parsers (modal, temporal, ...) refer to token
spans. annograph resolves those spans against a document's tokens and syntax
trees, builds typed annotation nodes, links them, stores the result and scores
edge sets against a reference.

Available commands:
  integrate - Integrate edge lists into documents
  score     - Score candidate edges against reference edges
  roundtrip - Match a stored document against another build
  export    - Export one graph of a stored document as JSON
  db        - List and remove stored documents
  am        - Manage annograph configuration ("I am")
  version   - Show version information

Examples:
  annograph integrate --doc doc.json --edges doc.tsv --save
  annograph score --ref gold.tsv --cand pred.tsv --format json
  annograph am show`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("log-json")

		// a broken config is reported by the command that needs it
		cfg, cfgErr := am.Load()
		if cfgErr == nil {
			verbosity = max(verbosity, cfg.Log.Verbosity)
			jsonLog = jsonLog || cfg.Log.JSON
		}

		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Infow("Logger initialized", "level", logger.LevelName(verbosity))
		if cfgErr == nil && logger.ShouldOutput(verbosity, logger.OutputConfig) {
			logger.Debugw("Configuration loaded", "config", cfg.String())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON to stderr")

	rootCmd.AddCommand(commands.IntegrateCmd)
	rootCmd.AddCommand(commands.ScoreCmd)
	rootCmd.AddCommand(commands.RoundtripCmd)
	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
