// Package reconcile recomputes predictions for the rows whose outcome is
// still unknown.
//
// Rows carrying a definite Yes/No diagnosis are never overwritten, even
// when a fresh score disagrees: a self-reported outcome outranks the
// model. Only sentinel-labeled rows take the freshly scored value, matched
// by positional index, and only when the sentinel counts on both sides of
// the scoring pass agree. A count mismatch aborts the whole overwrite.
package reconcile

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/classifier"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

// ErrAlignment reports a sentinel-row count mismatch between the table and
// its freshly scored copy. The overwrite is aborted; nothing is partially
// applied.
var ErrAlignment = eris.New("reconcile: sentinel row count mismatch between table and scored copy")

// Result summarizes one reconciliation pass.
type Result struct {
	Scored    int // rows the classifier scored
	Sentinel  int // rows eligible for overwrite
	Updated   int // predictions actually rewritten
	AtRisk    int // predictions now 1 across the table
	NotAtRisk int // predictions now 0 across the table
}

// Reconcile re-scores the table and overwrites the prediction field of
// exactly the sentinel-labeled rows, in place. It also normalizes the
// captured-at column to the fixed display format as part of the same pass.
func Reconcile(ctx context.Context, t *tabular.Table, c classifier.Classifier) (*Result, error) {
	matrix, kept := classifier.Encode(t)

	preds, err := c.Predict(ctx, matrix)
	if err != nil {
		return nil, eris.Wrap(err, "reconcile: score table")
	}
	if len(preds) != len(kept) {
		return nil, eris.Errorf("reconcile: classifier returned %d predictions for %d rows", len(preds), len(kept))
	}

	// Positional alignment check: every sentinel row must survive scoring.
	sentinelAll := 0
	for i := range t.Rows {
		if t.Cell(i, schema.FieldActual) == schema.SentinelOutcome {
			sentinelAll++
		}
	}
	sentinelScored := 0
	for _, row := range kept {
		if t.Cell(row, schema.FieldActual) == schema.SentinelOutcome {
			sentinelScored++
		}
	}
	if sentinelAll != sentinelScored {
		zap.L().Warn("reconcile: skipping overwrite",
			zap.Int("sentinel_rows", sentinelAll),
			zap.Int("sentinel_scored", sentinelScored),
		)
		return nil, eris.Wrapf(ErrAlignment, "%d sentinel rows, %d scored", sentinelAll, sentinelScored)
	}

	res := &Result{Scored: len(kept), Sentinel: sentinelAll}
	for i, row := range kept {
		if t.Cell(row, schema.FieldActual) != schema.SentinelOutcome {
			continue
		}
		t.SetCell(row, schema.FieldPredictions, strconv.Itoa(preds[i]))
		res.Updated++
	}

	for i := range t.Rows {
		switch t.Cell(i, schema.FieldPredictions) {
		case "1":
			res.AtRisk++
		default:
			res.NotAtRisk++
		}
		normalizeCapturedAt(t, i)
	}

	zap.L().Info("reconcile: pass complete",
		zap.Int("scored", res.Scored),
		zap.Int("sentinel", res.Sentinel),
		zap.Int("updated", res.Updated),
		zap.Int("at_risk", res.AtRisk),
	)
	return res, nil
}

// capturedAtLayouts are the timestamp shapes seen across the historical
// source spreadsheets.
var capturedAtLayouts = []string{
	schema.CapturedAtLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

func normalizeCapturedAt(t *tabular.Table, row int) {
	raw := t.Cell(row, schema.FieldCapturedAt)
	if raw == "" {
		return
	}
	for _, layout := range capturedAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			t.SetCell(row, schema.FieldCapturedAt, ts.Format(schema.CapturedAtLayout))
			return
		}
	}
	// Unparseable timestamps stay as-is.
}
