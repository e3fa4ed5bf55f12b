package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/annograph/am"
	"github.com/teranos/annograph/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage annograph configuration",
	Long: `am - Manage annograph configuration ("I am")

Display and manage annograph configuration settings.

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/annograph/am.toml)
3. User config (~/.annograph/am.toml)
4. Project config (nearest am.toml, searching up directories)
5. Environment variables (ANNOGRAPH_* prefix)

Examples:
  annograph am show                    # Show current configuration
  annograph am show --format json      # Show configuration in JSON format
  annograph am get matching.min_overlap
  annograph am where                   # Show where each setting comes from
  annograph am init                    # Write the effective configuration to ~/.annograph/am.toml`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAmShow(cmd.OutOrStdout(), configFormat)
	},
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, integration.graph)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAmGet(cmd.OutOrStdout(), args[0])
	},
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "configuration validation failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
		return nil
	},
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting is loaded from",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAmWhere(cmd.OutOrStdout())
	},
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration as TOML",
	Long:  "Write the effective configuration to path (default ~/.annograph/am.toml), keeping up to three backups of an existing file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runAmInit(cmd.OutOrStdout(), path)
	},
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", am.FormatTOML, "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(out io.Writer, format string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	data, err := am.Marshal(cfg, format)
	if err != nil {
		return err
	}
	if format != am.FormatJSON {
		fmt.Fprintln(out, "# annograph configuration")
	}
	_, err = out.Write(data)
	return err
}

func runAmGet(out io.Writer, key string) error {
	if !am.GetViper().IsSet(key) {
		return errors.NewNotFoundError("configuration key %q", key)
	}
	fmt.Fprintln(out, am.Get(key))
	return nil
}

func runAmWhere(out io.Writer) error {
	settings := am.Introspect()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   /etc/annograph/am.toml")
	fmt.Fprintln(out, "  3. [USER]     ~/.annograph/am.toml")
	fmt.Fprintln(out, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintln(out, "  5. [ENV]      ANNOGRAPH_* environment variables")
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range settings {
		value := fmt.Sprintf("%v", s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		data = append(data, []string{s.Key, value, string(s.Source), s.SourcePath})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(out, table)
	return nil
}

func runAmInit(out io.Writer, path string) error {
	if path == "" {
		p, err := am.UserConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	_, statErr := os.Stat(path)
	if err := am.SaveToFile(cfg, path); err != nil {
		return err
	}
	if statErr == nil {
		fmt.Fprintf(out, "✓ Updated %s (previous version in %s.back1)\n", path, path)
	} else {
		fmt.Fprintf(out, "✓ Wrote %s\n", path)
	}
	return nil
}
