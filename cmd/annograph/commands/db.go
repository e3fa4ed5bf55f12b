package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/annograph/errors"
)

// DbCmd manages stored documents
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "List and remove stored documents",
	Long: `Manage the documents stored in the annograph database.

Examples:
  annograph db ls                 # List stored documents
  annograph db rm news-001        # Remove a document and everything it owns`,
}

var dbLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDbList(cmd.Context(), dbPathFlag, cmd.OutOrStdout())
	},
}

var dbRmCmd = &cobra.Command{
	Use:   "rm <doc id>...",
	Short: "Remove stored documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDbRemove(cmd.Context(), dbPathFlag, args, cmd.OutOrStdout())
	},
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (default from database.path)")
	DbCmd.AddCommand(dbLsCmd)
	DbCmd.AddCommand(dbRmCmd)
}

func runDbList(ctx context.Context, dbPath string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, store, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents stored")
		return nil
	}

	data := pterm.TableData{{"Document", "Saved", "Sentences", "Nodes", "Edges"}}
	for _, d := range docs {
		data = append(data, []string{d.ID, d.SavedAt.Format("2006-01-02 15:04:05"), itoa(d.Sentences), itoa(d.Nodes), itoa(d.Edges)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(out, table)
	return nil
}

func runDbRemove(ctx context.Context, dbPath string, ids []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, store, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	for _, id := range ids {
		if err := store.DeleteDocument(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Removed %s\n", id)
	}
	return nil
}
