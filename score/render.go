package score

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/annograph/errors"
)

// Report output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Render writes r to w in the given format.
func Render(w io.Writer, r Report, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal score report to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return errors.Wrap(err, "failed to write score report")

	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "failed to marshal score report to YAML")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "failed to write score report")

	case FormatTable, "":
		out, err := pterm.DefaultTable.WithHasHeader().WithData(TableData(r)).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render score table")
		}
		_, err = fmt.Fprintln(w, out)
		return errors.Wrap(err, "failed to write score report")

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: table, json, yaml)", format)
	}
}

// TableData lays r out as rows of document, granularity, counts and P/R/F,
// followed by the micro and macro aggregates.
func TableData(r Report) pterm.TableData {
	data := pterm.TableData{{"Document", "Granularity", "TP", "FP", "FN", "P", "R", "F1"}}
	for _, d := range r.Documents {
		data = append(data, rows(d.ID, d.Scores)...)
	}
	data = append(data, rows("(micro)", r.Micro)...)
	data = append(data, rows("(macro)", r.Macro)...)
	return data
}

func rows(name string, s Scores) [][]string {
	out := make([][]string, 0, len(Granularities))
	for _, g := range Granularities {
		v := s.Get(g)
		out = append(out, []string{
			name,
			string(g),
			fmt.Sprint(v.TP),
			fmt.Sprint(v.FP),
			fmt.Sprint(v.FN),
			fmt.Sprintf("%.3f", v.Precision),
			fmt.Sprintf("%.3f", v.Recall),
			fmt.Sprintf("%.3f", v.F1),
		})
	}
	return out
}
