package ingest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/wellbeing-cli/internal/config"
	"github.com/campuspulse/wellbeing-cli/internal/normalize"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

type fixedClassifier struct {
	pred int
	err  error
}

func (f fixedClassifier) Predict(_ context.Context, matrix [][]float64) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]int, len(matrix))
	for i := range out {
		out[i] = f.pred
	}
	return out, nil
}

func newPipeline(t *testing.T, dir string, clf fixedClassifier) *Pipeline {
	t.Helper()
	n, err := normalize.New()
	require.NoError(t, err)
	clock := func() time.Time {
		return time.Date(2024, time.June, 1, 14, 30, 0, 0, time.UTC)
	}
	return New(config.DataConfig{Dir: dir}, schema.Default(), n, clf, WithClock(clock))
}

func sampleResponse() Response {
	return Response{
		Answers: []Answer{
			{ID: "diet", Values: []string{"Yes, I think my diet is healthy"}},
			{ID: "age", Values: []string{"2000"}},
			{ID: "home_country", Values: []string{"uk"}},
			{ID: "course_of_study", Values: []string{"BSc (Hons) Computer Science"}},
			{ID: "stress_in_general", Values: []string{"Yes (due to university work)", "No"}},
			{ID: "actual", Values: []string{schema.SentinelOutcome}},
		},
		Source: "SOL",
	}
}

func TestSubmit_CreatesStores(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, dir, fixedClassifier{pred: 1})
	data := config.DataConfig{Dir: dir}

	require.NoError(t, p.Submit(context.Background(), sampleResponse(), "sol"))

	inst, err := tabular.Load(data.InstitutionStore("sol"))
	require.NoError(t, err)
	require.Len(t, inst.Rows, 1, "institution store has 2 header rows + 1 data row")

	merged, err := tabular.Load(data.MergedStore())
	require.NoError(t, err)
	require.Len(t, merged.Rows, 1)
	assert.Equal(t, "SOL", merged.Cell(0, schema.FieldSource))
}

func TestSubmit_NormalizesFields(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, dir, fixedClassifier{pred: 0})
	data := config.DataConfig{Dir: dir}

	require.NoError(t, p.Submit(context.Background(), sampleResponse(), "sol"))

	merged, err := tabular.Load(data.MergedStore())
	require.NoError(t, err)

	assert.Equal(t, "Healthy", merged.Cell(0, "diet"))
	assert.Equal(t, "24", merged.Cell(0, "age"), "birth year 2000 in 2024")
	assert.Equal(t, "United Kingdom", merged.Cell(0, "home_country"))
	assert.Equal(t, "BSc", merged.Cell(0, "course_of_study"))
	assert.Equal(t, "Yes (due to university work)", merged.Cell(0, "stress_in_general"),
		"No options dropped when a Yes option is selected")
	assert.Equal(t, "01.06.2024 14:30", merged.Cell(0, schema.FieldCapturedAt))
}

func TestSubmit_ReconcilesSentinelRows(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, dir, fixedClassifier{pred: 1})
	data := config.DataConfig{Dir: dir}

	require.NoError(t, p.Submit(context.Background(), sampleResponse(), "sol"))

	merged, err := tabular.Load(data.MergedStore())
	require.NoError(t, err)
	assert.Equal(t, "1", merged.Cell(0, schema.FieldPredictions),
		"sentinel-labeled row takes the fresh score")
}

func TestSubmit_DefiniteOutcomeKeepsZero(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, dir, fixedClassifier{pred: 1})
	data := config.DataConfig{Dir: dir}

	resp := sampleResponse()
	for i := range resp.Answers {
		if resp.Answers[i].ID == "actual" {
			resp.Answers[i].Values = []string{"No"}
		}
	}
	require.NoError(t, p.Submit(context.Background(), resp, "sol"))

	merged, err := tabular.Load(data.MergedStore())
	require.NoError(t, err)
	assert.Equal(t, "0", merged.Cell(0, schema.FieldPredictions))
}

func TestSubmit_FansOutPerSource(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, dir, fixedClassifier{pred: 0})
	data := config.DataConfig{Dir: dir}

	require.NoError(t, p.Submit(context.Background(), sampleResponse(), "sol"))
	require.NoError(t, p.Submit(context.Background(), sampleResponse(), "ual1"))

	merged, err := tabular.Load(data.MergedStore())
	require.NoError(t, err)
	require.Len(t, merged.Rows, 2)

	sol, err := tabular.Load(data.InstitutionStore("sol"))
	require.NoError(t, err)
	require.Len(t, sol.Rows, 1)
	assert.Equal(t, "SOL", sol.Cell(0, schema.FieldSource))

	ual, err := tabular.Load(data.InstitutionStore("ual1"))
	require.NoError(t, err)
	require.Len(t, ual.Rows, 1)
	assert.Equal(t, "UAL1", ual.Cell(0, schema.FieldSource))
}

func TestSubmit_ClassifierFailureAborts(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, dir, fixedClassifier{err: assert.AnError})
	data := config.DataConfig{Dir: dir}

	err := p.Submit(context.Background(), sampleResponse(), "sol")
	require.Error(t, err)

	// No rollback: the appends from steps 3-4 stay in place.
	merged, loadErr := tabular.Load(data.MergedStore())
	require.NoError(t, loadErr)
	assert.Len(t, merged.Rows, 1)
}

func TestSubmit_EmptyInstitution(t *testing.T) {
	p := newPipeline(t, t.TempDir(), fixedClassifier{})
	err := p.Submit(context.Background(), sampleResponse(), "  ")
	require.Error(t, err)
}

func TestAnswer_UnmarshalFlexible(t *testing.T) {
	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`{"id":"diet","answer":"Healthy"}`), &a))
	assert.Equal(t, []string{"Healthy"}, a.Values)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"stress_in_general","answer":["Yes","No"]}`), &a))
	assert.Equal(t, []string{"Yes", "No"}, a.Values)
}
