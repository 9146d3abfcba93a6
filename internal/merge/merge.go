// Package merge is the offline, one-shot batch dataset merger: it
// concatenates heterogeneous source spreadsheets, tags each row with its
// origin, and applies the value normalizer uniformly. Any read failure
// aborts the whole run; there is no partial-failure handling.
package merge

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campuspulse/wellbeing-cli/internal/normalize"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

// Source names one input spreadsheet and the origin tag stamped onto its
// rows.
type Source struct {
	Path string
	Tag  string
}

// Merger combines source datasets into one normalized table.
type Merger struct {
	schema *schema.Schema
	norm   *normalize.Normalizer
}

// New creates a Merger.
func New(s *schema.Schema, n *normalize.Normalizer) *Merger {
	return &Merger{schema: s, norm: n}
}

// Merge reads every source concurrently, concatenates their rows in the
// order given, tags origins, and normalizes column-wise. Declared numeric
// fields are coerced to integers, non-numeric values becoming 0.
func (m *Merger) Merge(ctx context.Context, sources []Source) (*tabular.Table, error) {
	if len(sources) == 0 {
		return nil, eris.New("merge: no sources given")
	}

	tables := make([]*tabular.Table, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				return eris.Wrap(ctx.Err(), "merge: cancelled")
			}
			t, err := tabular.Load(src.Path)
			if err != nil {
				return eris.Wrapf(err, "merge: read source %s", src.Tag)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := tabular.NewTable(m.schema.Questions(), m.schema.IDs())
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		for row := range t.Rows {
			rec := t.RowRecord(row)
			rec[schema.FieldSource] = sources[i].Tag
			out.Rows = append(out.Rows, m.normalizeRow(rec))
		}
		zap.L().Info("merge: source concatenated",
			zap.String("tag", sources[i].Tag),
			zap.Int("rows", len(t.Rows)),
		)
	}

	return out, nil
}

// normalizeRow applies the value mappings and numeric coercion to one
// record and aligns it to the canonical column order. The historical
// timetable_reasons free-text column is dropped.
func (m *Merger) normalizeRow(rec tabular.Record) []string {
	row := make([]string, m.schema.Len())
	for i, f := range m.schema.Fields() {
		raw := rec[f.ID]

		switch {
		case f.ID == "timetable_reasons":
			row[i] = ""
		case f.ID == schema.FieldSource, f.ID == schema.FieldCapturedAt:
			row[i] = normalize.Clean(raw)
		case f.ID == schema.FieldPredictions:
			row[i] = strconv.Itoa(coerceInt(raw))
		case m.schema.IsNumeric(f.ID):
			row[i] = strconv.Itoa(coerceInt(raw))
		default:
			row[i] = m.norm.Normalize(f.ID, raw)
		}
	}
	return row
}

// coerceInt extracts an integer from a raw cell; anything non-numeric
// becomes 0.
func coerceInt(raw string) int {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(v)
	}
	// Fall back to the first digit run in the string.
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			v, _ := strconv.Atoi(raw[start:i])
			return v
		}
	}
	if start >= 0 {
		v, _ := strconv.Atoi(raw[start:])
		return v
	}
	return 0
}
