package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const rankDoc = `{
  "seeds": [
    {"title": "Bravo", "ratings": {"roi": "very_high"}, "amount_gained": 300, "amount_spent": 100},
    {"title": "alpha", "ratings": {"Compliance": "Low"}},
    {"title": "Charlie"}
  ]
}`

func writeRankDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.json")
	require.NoError(t, os.WriteFile(path, []byte(rankDoc), 0o600))
	return path
}

type rankJSON struct {
	Strategy string          `json:"strategy"`
	Items    []rankRow       `json:"items"`
	Summary  scoring.Summary `json:"summary"`
}

func (r rankJSON) titles() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Title
	}
	return out
}

func TestRankByMetric(t *testing.T) {
	out, err := run(t, "", "rank", "-f", writeRankDoc(t), "--json")
	require.NoError(t, err)

	var got rankJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "metric", got.Strategy)
	assert.Equal(t, []string{"Bravo", "alpha", "Charlie"}, got.titles())
	assert.Equal(t, 75.0, got.Items[0].Score)
	require.NotNil(t, got.Items[0].ROI)
	assert.Equal(t, 200.0, *got.Items[0].ROI)
	assert.Nil(t, got.Items[1].ROI)
	assert.Equal(t, 3, got.Summary.Count)
}

func TestRankByNameFromStdin(t *testing.T) {
	out, err := run(t, rankDoc, "rank", "-f", "-", "--sort", "name", "--order", "asc", "--json")
	require.NoError(t, err)

	var got rankJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"alpha", "Bravo", "Charlie"}, got.titles())
}

func TestRankTable(t *testing.T) {
	out, err := run(t, "", "rank", "-f", writeRankDoc(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, lines[1], "Bravo")
	assert.Contains(t, lines[1], "200.0%")
}

func TestRankXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking.xlsx")
	_, err := run(t, "", "rank", "-f", writeRankDoc(t), "--xlsx", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rankSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Rank", "Title", "Score", "ROI %"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Bravo", rows[1][1])
	assert.Equal(t, "Charlie", rows[3][1])
}

func TestRankErrors(t *testing.T) {
	path := writeRankDoc(t)

	_, err := run(t, "", "rank", "-f", path, "--sort", "random")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)

	_, err = run(t, "", "rank", "-f", path, "--order", "sideways")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)

	_, err = run(t, `{"seeds":[{"title":"x","ratings":{"happiness":"high"}}]}`, "rank", "-f", "-")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)

	_, err = run(t, `{"weights":{"roi":80,"compliance":80},"seeds":[]}`, "rank", "-f", "-")
	assert.Error(t, err)

	_, err = run(t, `{"seeds":[{"title":"x"},null]}`, "rank", "-f", "-")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)

	_, err = run(t, "", "rank")
	assert.Error(t, err)
}

func TestWeightsSet(t *testing.T) {
	out, err := run(t, "", "weights", "set", "--dimension", "roi", "--value", "50", "--json")
	require.NoError(t, err)

	var got struct {
		Previous scoring.WeightConfig `json:"previous"`
		Weights  scoring.WeightConfig `json:"weights"`
		Total    int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, scoring.DefaultWeights(), got.Previous)
	assert.Equal(t, scoring.WeightConfig{50, 0, 0, 8, 14, 14, 14}, got.Weights)
	assert.Equal(t, 100, got.Total)
}

func TestWeightsSetFromCurrent(t *testing.T) {
	out, err := run(t, "", "weights", "set", "--weights", "10,0,0,0,0,0,0", "--dimension", "6", "--value", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "new_revenue")
	assert.Contains(t, out, "total")

	_, err = run(t, "", "weights", "set", "--weights", "10,0,0", "--dimension", "roi", "--value", "30")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)

	_, err = run(t, "", "weights", "set", "--dimension", "happiness", "--value", "30")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)
}

func TestParseWeights(t *testing.T) {
	w, err := parseWeights(" 15, 15,14,14,14,14,14")
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultWeights(), w)

	_, err = parseWeights("a,b,c,d,e,f,g")
	assert.ErrorIs(t, err, scoring.ErrInvalidArgument)
}

func TestROI(t *testing.T) {
	out, err := run(t, "", "roi", "--gained", "150", "--spent", "50")
	require.NoError(t, err)
	assert.Equal(t, "ROI: 200.00%\n", out)

	_, err = run(t, "", "roi", "--gained", "150", "--spent", "0")
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("SEEDS_DATABASE_URL", "")
	_, err := run(t, "", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database URL")
}
