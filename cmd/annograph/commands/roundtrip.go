package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/graphstore"
	"github.com/teranos/annograph/roundtrip"
	"github.com/teranos/annograph/score"
)

// RoundtripCmd matches stored documents against another build of the same text
var RoundtripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Match stored documents against another build",
	Long: `Match the documents of one database against the same documents in another.

Elements are matched structurally, never by id: tokens by text and offsets,
syntax nodes by tag and token range, annotation nodes by type, label, span
and arguments, edges by graph, relation and both endpoints. The command fails
when any element of --db has no counterpart in --other.

Examples:
  annograph roundtrip --db a.db --other b.db
  annograph roundtrip --db a.db --other b.db --doc news-001 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := runRoundtrip(cmd.Context(), roundtripOpts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		for _, r := range reports {
			if !r.Report.Complete() {
				return errors.Newf("document %s did not round-trip", r.Document)
			}
		}
		return nil
	},
}

type roundtripOptions struct {
	DBPath string
	Other  string
	Docs   []string
	Format string
}

var roundtripOpts roundtripOptions

func init() {
	RoundtripCmd.Flags().StringVar(&roundtripOpts.DBPath, "db", "", "Database of documents to match (default from database.path)")
	RoundtripCmd.Flags().StringVar(&roundtripOpts.Other, "other", "", "Database to match against")
	RoundtripCmd.Flags().StringArrayVar(&roundtripOpts.Docs, "doc", nil, "Document id (repeatable; default every document of --db)")
	RoundtripCmd.Flags().StringVar(&roundtripOpts.Format, "format", score.FormatTable, "Output format: table, json, yaml")
	RoundtripCmd.MarkFlagRequired("other")
}

// DocumentMatch is the round-trip report of one document
type DocumentMatch struct {
	Document string           `json:"document" yaml:"document"`
	Report   roundtrip.Report `json:"report" yaml:"report"`
}

func runRoundtrip(ctx context.Context, opts roundtripOptions, out io.Writer) ([]DocumentMatch, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !isFormat(opts.Format) {
		return nil, errors.NewInvalidRequestError("unsupported format %q", opts.Format)
	}
	if opts.Other == "" {
		return nil, errors.NewInvalidRequestError("--other is required")
	}

	dbA, storeA, err := openStore(opts.DBPath)
	if err != nil {
		return nil, err
	}
	defer dbA.Close()
	dbB, storeB, err := openStore(opts.Other)
	if err != nil {
		return nil, err
	}
	defer dbB.Close()

	ids := opts.Docs
	if len(ids) == 0 {
		infos, err := storeA.ListDocuments(ctx)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			ids = append(ids, info.ID)
		}
	}

	matches := make([]DocumentMatch, 0, len(ids))
	for _, id := range ids {
		m, err := matchStored(ctx, storeA, storeB, id)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, renderRoundtrip(out, matches, opts.Format)
}

func matchStored(ctx context.Context, a, b *graphstore.Store, id string) (DocumentMatch, error) {
	docA, err := a.LoadDocument(ctx, id)
	if err != nil {
		return DocumentMatch{}, err
	}
	docB, err := b.LoadDocument(ctx, id)
	if err != nil {
		return DocumentMatch{}, errors.Wrapf(err, "document %s missing from other database", id)
	}
	return DocumentMatch{Document: id, Report: roundtrip.NewMatcher(docA, docB).MatchAll()}, nil
}

func renderRoundtrip(w io.Writer, matches []DocumentMatch, format string) error {
	switch format {
	case score.FormatJSON:
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal report to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case score.FormatYAML:
		data, err := yaml.Marshal(matches)
		if err != nil {
			return errors.Wrap(err, "failed to marshal report to YAML")
		}
		_, err = w.Write(data)
		return err
	}

	data := pterm.TableData{{"Document", "Kind", "Matched", "Unmatched"}}
	for _, m := range matches {
		for _, k := range m.Report.Kinds() {
			data = append(data, []string{m.Document, k.Name, itoa(k.Stats.Matched), itoa(k.Stats.Unmatched)})
		}
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, table)
	for _, m := range matches {
		for _, n := range m.Report.UnmatchedNodes {
			fmt.Fprintf(w, "  %s: unmatched node %s\n", m.Document, n)
		}
	}
	return nil
}
