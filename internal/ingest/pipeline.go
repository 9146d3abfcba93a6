// Package ingest runs the questionnaire submission pipeline: normalize
// one incoming response, append it to the institution-specific and merged
// stores, recompute predictions for the unknown-outcome rows, and fan the
// updated merged rows back out to every institution store.
//
// The steps run strictly in order with no rollback: a later step's
// failure leaves earlier appends in place, and the next successful
// submission repairs any divergence by reconciling over the larger merged
// set. The stores are shared mutable files with no locking; concurrent
// submissions racing on the same file is an accepted limitation of the
// file-based design.
package ingest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/classifier"
	"github.com/campuspulse/wellbeing-cli/internal/config"
	"github.com/campuspulse/wellbeing-cli/internal/normalize"
	"github.com/campuspulse/wellbeing-cli/internal/reconcile"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/store"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

// Submission audit statuses.
const (
	StatusOK               = "ok"
	StatusReconcileSkipped = "reconcile_skipped"
	StatusFailed           = "failed"
)

// Pipeline orchestrates one submission end to end.
type Pipeline struct {
	data   config.DataConfig
	schema *schema.Schema
	norm   *normalize.Normalizer
	clf    classifier.Classifier
	audit  store.Store // optional
	now    func() time.Time
}

// Option tweaks pipeline construction.
type Option func(*Pipeline)

// WithClock injects a clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithAudit records an audit row per submission in the operational store.
func WithAudit(s store.Store) Option {
	return func(p *Pipeline) { p.audit = s }
}

// New creates a Pipeline.
func New(data config.DataConfig, s *schema.Schema, n *normalize.Normalizer, c classifier.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		data:   data,
		schema: s,
		norm:   n,
		clf:    c,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit processes one questionnaire response for the given institution.
func (p *Pipeline) Submit(ctx context.Context, resp Response, institution string) error {
	log := zap.L().With(zap.String("institution", institution))

	rec, err := p.buildRecord(resp, institution)
	if err != nil {
		p.recordAudit(ctx, institution, 0, StatusFailed)
		return err
	}

	instPath := p.data.InstitutionStore(institution)
	if err := tabular.Append(instPath, rec, p.schema); err != nil {
		p.recordAudit(ctx, institution, 0, StatusFailed)
		return eris.Wrap(err, "ingest: append institution store")
	}

	mergedPath := p.data.MergedStore()
	if err := tabular.Append(mergedPath, rec, p.schema); err != nil {
		p.recordAudit(ctx, institution, 0, StatusFailed)
		return eris.Wrap(err, "ingest: append merged store")
	}

	merged, err := tabular.Load(mergedPath)
	if err != nil {
		p.recordAudit(ctx, institution, 0, StatusFailed)
		return eris.Wrap(err, "ingest: reload merged store")
	}

	status := StatusOK
	if _, err := reconcile.Reconcile(ctx, merged, p.clf); err != nil {
		if !eris.Is(err, reconcile.ErrAlignment) {
			// Predictions are load-bearing: a classifier failure aborts
			// the submission. The appends from earlier steps stay.
			p.recordAudit(ctx, institution, len(merged.Rows), StatusFailed)
			return err
		}
		// A skipped overwrite is reported but does not block the fan-out;
		// the next submission retries over the larger merged set.
		log.Warn("ingest: reconciliation skipped", zap.Error(err))
		status = StatusReconcileSkipped
	}

	if err := tabular.Write(mergedPath, merged); err != nil {
		p.recordAudit(ctx, institution, len(merged.Rows), StatusFailed)
		return eris.Wrap(err, "ingest: write merged store")
	}

	var writeErrs []error
	for _, src := range distinctSources(merged) {
		subset := merged.Filter(func(row int) bool {
			return merged.Cell(row, schema.FieldSource) == src
		})
		if err := tabular.Write(p.data.InstitutionStore(src), subset); err != nil {
			log.Error("ingest: institution write-back failed",
				zap.String("source", src),
				zap.Error(err),
			)
			writeErrs = append(writeErrs, eris.Wrapf(err, "ingest: write back %s", src))
		}
	}

	p.recordAudit(ctx, institution, len(merged.Rows), status)

	if len(writeErrs) > 0 {
		return writeErrs[0]
	}

	log.Info("ingest: submission complete",
		zap.Int("merged_rows", len(merged.Rows)),
		zap.String("status", status),
	)
	return nil
}

// buildRecord normalizes every answered field and stamps the derived
// fields. The age question is answered as a birth year and stored as an
// age in whole years as of submission time.
func (p *Pipeline) buildRecord(resp Response, institution string) (tabular.Record, error) {
	if strings.TrimSpace(institution) == "" {
		return nil, eris.New("ingest: institution is required")
	}

	rec := make(tabular.Record, p.schema.Len())
	for _, f := range p.schema.Fields() {
		switch f.ID {
		case schema.FieldSource, schema.FieldPredictions, schema.FieldCapturedAt:
			continue
		}

		ans, ok := resp.Answer(f.ID)
		if !ok {
			continue
		}

		switch {
		case f.ID == "stress_in_general":
			// Multi-select: stored as the joined option string, with the
			// "No" options dropped when any "Yes" option was selected.
			rec[f.ID] = normalize.GeneralStress(ans.Values)
		case f.ID == "age":
			age, err := normalize.Age(ans.First(), p.now())
			if err != nil {
				return nil, err
			}
			rec[f.ID] = strconv.Itoa(age)
		default:
			rec[f.ID] = p.norm.Normalize(f.ID, ans.First())
		}
	}

	rec[schema.FieldSource] = strings.ToUpper(strings.TrimSpace(institution))
	rec[schema.FieldPredictions] = "0"
	rec[schema.FieldCapturedAt] = p.now().Format(schema.CapturedAtLayout)
	return rec, nil
}

func (p *Pipeline) recordAudit(ctx context.Context, institution string, mergedRows int, status string) {
	if p.audit == nil {
		return
	}
	if _, err := p.audit.RecordSubmission(ctx, strings.ToUpper(strings.TrimSpace(institution)), mergedRows, status); err != nil {
		zap.L().Warn("ingest: audit record failed", zap.Error(err))
	}
}

func distinctSources(t *tabular.Table) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range t.Rows {
		src := strings.TrimSpace(t.Cell(i, schema.FieldSource))
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}
