// Package dashboard serves read-only denormalized views over the merged
// store.
package dashboard

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/campuspulse/wellbeing-cli/internal/config"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

// NotProvided replaces missing categorical values in dashboard records.
const NotProvided = "Not Provided"

// Record is one denormalized row: numeric fields coerced to integers,
// everything else a string.
type Record map[string]any

// Query reads the merged store and returns denormalized records,
// optionally filtered to one institution tag. "All" and the empty string
// mean no filter. A missing merged store is a hard error here, not an
// auto-create.
func Query(data config.DataConfig, s *schema.Schema, institution string) ([]Record, error) {
	t, err := tabular.Load(data.MergedStore())
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: load merged store")
	}

	filter := strings.TrimSpace(institution)
	if strings.EqualFold(filter, "All") {
		filter = ""
	}

	var out []Record
	for i := range t.Rows {
		if filter != "" && t.Cell(i, schema.FieldSource) != filter {
			continue
		}
		out = append(out, denormalize(t.RowRecord(i), s))
	}
	return out, nil
}

// denormalize coerces one raw record for dashboard consumption: declared
// numeric fields become integers (default 0), missing categoricals become
// the literal "Not Provided" marker.
func denormalize(rec tabular.Record, s *schema.Schema) Record {
	out := make(Record, s.Len())
	for _, f := range s.Fields() {
		raw := strings.TrimSpace(rec[f.ID])

		if s.IsNumeric(f.ID) || f.ID == schema.FieldPredictions {
			out[f.ID] = coerceInt(raw)
			continue
		}

		if raw == "" || strings.EqualFold(raw, "nan") {
			out[f.ID] = NotProvided
			continue
		}
		out[f.ID] = raw
	}
	return out
}

func coerceInt(raw string) int {
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(v)
	}
	return 0
}
