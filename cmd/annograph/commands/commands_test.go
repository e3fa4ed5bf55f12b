package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/annograph/am"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/graph"
	"github.com/teranos/annograph/score"
)

const johnFlewJSON = `{
  "id": "%s",
  "sentences": [
    {"tokens": [
      {"text": "John", "start": 0, "end": 3},
      {"text": "flew", "start": 5, "end": 8},
      {"text": "to", "start": 10, "end": 11},
      {"text": "Paris", "start": 13, "end": 17},
      {"text": ".", "start": 18, "end": 18}
    ]}
  ]
}`

const johnFlewEdges = "# modal edges\n" +
	"0_1_1\tEvent\tROOT\tdep\n" +
	"0_0_0\tConceiver\tAUTHOR\tpos\n" +
	"0_3_3\tTimex\t0_1_1\tbefore\t0.7\n" +
	"not an edge\n"

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func docJSON(id string) string {
	return fmt.Sprintf(johnFlewJSON, id)
}

func defaultConfig(t *testing.T) *am.Config {
	t.Helper()
	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

// corpusFixture writes two documents: doc-1 integrates, doc-2 references a
// sentence it does not have.
func corpusFixture(t *testing.T, dir string) integrateOptions {
	t.Helper()
	return integrateOptions{
		Docs: []string{
			write(t, dir, "doc-1.json", docJSON("doc-1")),
			write(t, dir, "doc-2.json", docJSON("doc-2")),
		},
		Edges: []string{
			write(t, dir, "doc-1.tsv", johnFlewEdges),
			write(t, dir, "doc-2.tsv", "0_1_1\tEvent\tROOT\tdep\n3_0_0\tEvent\t0_1_1\tdep\n"),
		},
		Format: score.FormatJSON,
	}
}

func TestRunIntegrate(t *testing.T) {
	dir := t.TempDir()
	opts := corpusFixture(t, dir)

	var out bytes.Buffer
	report, err := runIntegrate(context.Background(), defaultConfig(t), opts, &out)
	require.NoError(t, err)

	assert.Equal(t, "modal", report.Graph)
	require.Len(t, report.Documents, 2)

	doc1 := report.Documents[0]
	assert.Equal(t, "doc-1", doc1.ID)
	assert.Equal(t, "ok", doc1.Status)
	assert.Equal(t, 1, doc1.MalformedLines)
	assert.Equal(t, graph.Summary{Edges: 3, EdgesCreated: 3, NodesCreated: 3}, doc1.Summary)
	assert.Empty(t, doc1.Failures)

	doc2 := report.Documents[1]
	assert.Equal(t, "aborted", doc2.Status)
	assert.NotEmpty(t, doc2.Error)

	assert.Equal(t, 2, report.Summary.Documents)
	assert.Equal(t, 1, report.Summary.Succeeded)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Zero(t, report.Saved)

	var decoded IntegrationReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, report.Summary, decoded.Summary)
}

func TestRunIntegrateTable(t *testing.T) {
	opts := corpusFixture(t, t.TempDir())
	opts.Format = score.FormatTable

	var out bytes.Buffer
	_, err := runIntegrate(context.Background(), defaultConfig(t), opts, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "doc-1")
	assert.Contains(t, out.String(), "1 aborted")
}

func TestRunIntegrateRejectsBadInput(t *testing.T) {
	cfg := defaultConfig(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		opts integrateOptions
	}{
		{"no documents", integrateOptions{Format: score.FormatJSON}},
		{"unpaired edges", integrateOptions{Docs: []string{"a.json", "b.json"}, Edges: []string{"a.tsv"}, Format: score.FormatJSON}},
		{"unknown format", integrateOptions{Docs: []string{"a.json"}, Edges: []string{"a.tsv"}, Format: "csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runIntegrate(context.Background(), cfg, tt.opts, &bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
		})
	}

	_, err := runIntegrate(context.Background(), cfg, integrateOptions{
		Docs:   []string{filepath.Join(dir, "missing.json")},
		Edges:  []string{filepath.Join(dir, "missing.tsv")},
		Format: score.FormatJSON,
	}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunIntegrateCancelled(t *testing.T) {
	opts := corpusFixture(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runIntegrate(ctx, defaultConfig(t), opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// integrateAndSave stores doc-1 in a fresh database and returns its path.
func integrateAndSave(t *testing.T, dir string) string {
	t.Helper()
	opts := corpusFixture(t, dir)
	opts.DBPath = filepath.Join(dir, "corpus.db")

	report, err := runIntegrate(context.Background(), defaultConfig(t), opts, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Saved)
	return opts.DBPath
}

func TestRunIntegrateFromStoreKeepsEarlierGraphs(t *testing.T) {
	dir := t.TempDir()
	dbPath := integrateAndSave(t, dir)

	temporal := write(t, dir, "doc-1.temporal.tsv", "0_1_1\tEvent\tROOT\tdep\n"+
		"0_3_3\tTimex\t0_1_1\tafter\n"+
		"0_1_1\tEvent\tDCT\tbefore\n")
	report, err := runIntegrate(context.Background(), defaultConfig(t), integrateOptions{
		Docs:   []string{"doc-1"},
		Edges:  []string{temporal},
		Graph:  "temporal",
		DBPath: dbPath,
		FromDB: true,
		Format: score.FormatJSON,
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, graph.Summary{Edges: 3, EdgesCreated: 3}, report.Documents[0].Summary)

	database, store, err := openStore(dbPath)
	require.NoError(t, err)
	defer database.Close()
	doc, err := store.LoadDocument(context.Background(), "doc-1")
	require.NoError(t, err)

	perGraph := map[string]int{}
	for _, e := range doc.Edges {
		perGraph[e.Graph]++
	}
	assert.Equal(t, map[string]int{"modal": 3, "temporal": 3}, perGraph)
	assert.Len(t, doc.Nodes, 3)
	assert.Contains(t, doc.Roots, "modal")
	assert.Contains(t, doc.Roots, "temporal")

	_, err = runIntegrate(context.Background(), defaultConfig(t), integrateOptions{
		Docs:   []string{"doc-404"},
		Edges:  []string{temporal},
		DBPath: dbPath,
		FromDB: true,
		Format: score.FormatJSON,
	}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

const referenceEdges = "filename:doc-1\n" +
	"0_1_1\tdep\tROOT\n" +
	"0_0_0\tpos\tAUTHOR\n" +
	"0_0_0\tpos\t-3_-3_-3\n" +
	"0_3_3\tbefore\t0_1_1\n" +
	"0_2_2\tafter\t0_1_1\n"

func TestRunScoreFiles(t *testing.T) {
	dir := t.TempDir()
	ref := write(t, dir, "ref.tsv", referenceEdges)
	cand := write(t, dir, "cand.tsv", "filename:doc-1\n0_1_1\tdep\tROOT\n0_3_3\tafter\t0_1_1\nfilename:doc-9\n0_0_0\tdep\tROOT\n")

	var out bytes.Buffer
	report, err := runScore(context.Background(), scoreOptions{Ref: ref, Cand: cand, Format: score.FormatJSON}, &out)
	require.NoError(t, err)

	require.Len(t, report.Documents, 2)
	doc1 := report.Documents[0]
	assert.Equal(t, "doc-1", doc1.ID)
	assert.Equal(t, score.Counts{TP: 1, FP: 1, FN: 3}, doc1.Labeled.Counts)
	assert.Equal(t, score.Counts{TP: 2, FP: 0, FN: 2}, doc1.RelOnly.Counts)
	assert.Equal(t, "doc-9", report.Documents[1].ID)
	assert.Zero(t, report.Documents[1].Labeled.F1)

	var decoded score.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, report.Micro, decoded.Micro)
}

func TestRunScoreStoredDocuments(t *testing.T) {
	dir := t.TempDir()
	dbPath := integrateAndSave(t, dir)
	ref := write(t, dir, "ref.tsv", referenceEdges+"filename:doc-unknown\n0_0_0\tdep\tROOT\n")

	report, err := runScore(context.Background(), scoreOptions{Ref: ref, DBPath: dbPath, Graph: "modal", Format: score.FormatYAML}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, report.Documents, 2)
	doc1 := report.Documents[0]
	// the numeric AUTHOR line duplicates its named twin
	assert.Equal(t, score.Counts{TP: 3, FP: 0, FN: 1}, doc1.Labeled.Counts)
	assert.Equal(t, 1.0, doc1.Labeled.Precision)
	assert.Equal(t, 0.75, doc1.Labeled.Recall)

	unknown := report.Documents[1]
	assert.Equal(t, "doc-unknown", unknown.ID)
	assert.Equal(t, score.Counts{FN: 1}, unknown.Labeled.Counts)
}

func TestRunScoreUnknownFormat(t *testing.T) {
	_, err := runScore(context.Background(), scoreOptions{Ref: "ref.tsv", Format: "xml"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestRunRoundtrip(t *testing.T) {
	dir := t.TempDir()
	a := integrateAndSave(t, mkdir(t, dir, "a"))
	b := integrateAndSave(t, mkdir(t, dir, "b"))

	var out bytes.Buffer
	matches, err := runRoundtrip(context.Background(), roundtripOptions{DBPath: a, Other: b, Format: score.FormatTable}, &out)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-1", matches[0].Document)
	assert.True(t, matches[0].Report.Complete(), matches[0].Report.String())
	assert.Equal(t, 3, matches[0].Report.Nodes.Matched)
	assert.Equal(t, 3, matches[0].Report.Edges.Matched)
	assert.Contains(t, out.String(), "edges")

	_, err = runRoundtrip(context.Background(), roundtripOptions{DBPath: a, Other: b, Docs: []string{"doc-2"}, Format: score.FormatJSON}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	dbPath := integrateAndSave(t, dir)

	var out bytes.Buffer
	require.NoError(t, runExport(context.Background(), exportOptions{DBPath: dbPath, Graph: "modal"}, "doc-1", &out))

	var view graph.Graph
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Len(t, view.Links, 3)
	assert.Equal(t, "doc-1", view.Meta.Config["document"])

	err := runExport(context.Background(), exportOptions{DBPath: dbPath}, "nope", &bytes.Buffer{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRunDbListAndRemove(t *testing.T) {
	dir := t.TempDir()
	dbPath := integrateAndSave(t, dir)

	var out bytes.Buffer
	require.NoError(t, runDbList(context.Background(), dbPath, &out))
	assert.Contains(t, out.String(), "doc-1")

	out.Reset()
	require.NoError(t, runDbRemove(context.Background(), dbPath, []string{"doc-1"}, &out))
	assert.Contains(t, out.String(), "Removed doc-1")

	out.Reset()
	require.NoError(t, runDbList(context.Background(), dbPath, &out))
	assert.Contains(t, out.String(), "No documents stored")

	err := runDbRemove(context.Background(), dbPath, []string{"doc-1"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestAmCommands(t *testing.T) {
	am.Reset()
	t.Cleanup(am.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	t.Setenv("ANNOGRAPH_INTEGRATION_GRAPH", "temporal")

	var out bytes.Buffer
	require.NoError(t, runAmShow(&out, am.FormatJSON))
	var cfg am.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, "temporal", cfg.Integration.Graph)

	out.Reset()
	require.NoError(t, runAmGet(&out, "matching.min_overlap"))
	assert.Equal(t, "0.99\n", out.String())

	err := runAmGet(&bytes.Buffer{}, "no.such.key")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	out.Reset()
	require.NoError(t, runAmWhere(&out))
	assert.Contains(t, out.String(), "ANNOGRAPH_INTEGRATION_GRAPH")

	out.Reset()
	require.NoError(t, runAmInit(&out, ""))
	path := filepath.Join(home, ".annograph", "am.toml")
	assert.Contains(t, out.String(), path)
	saved, err := am.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "temporal", saved.Integration.Graph)
}
