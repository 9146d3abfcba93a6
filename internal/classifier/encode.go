package classifier

import (
	"sort"
	"strconv"
	"strings"

	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

// Encode builds the feature matrix for a dual-header table in the fixed
// declared order: numeric features first, then label-encoded categoricals.
// Missing numeric cells are imputed with the column mean; categorical
// labels are encoded per column in sorted order, the empty string included.
//
// Rows with no feature content at all (every declared feature cell blank)
// carry no signal and are dropped as malformed; the second return value
// lists the table row index behind each matrix row so callers can map
// predictions back.
func Encode(t *tabular.Table) ([][]float64, []int) {
	kept := make([]int, 0, len(t.Rows))
	for i := range t.Rows {
		if hasFeatureContent(t, i) {
			kept = append(kept, i)
		}
	}

	matrix := make([][]float64, len(kept))
	for i := range matrix {
		matrix[i] = make([]float64, FeatureCount)
	}

	for col, field := range NumericFeatures {
		values := make([]float64, len(kept))
		present := make([]bool, len(kept))
		var sum float64
		var count int
		for i, row := range kept {
			v, ok := parseNumeric(t.Cell(row, field))
			values[i] = v
			present[i] = ok
			if ok {
				sum += v
				count++
			}
		}
		mean := 0.0
		if count > 0 {
			mean = sum / float64(count)
		}
		for i := range kept {
			if !present[i] {
				values[i] = mean
			}
			matrix[i][col] = values[i]
		}
	}

	base := len(NumericFeatures)
	for col, field := range CategoricalFeatures {
		codes := labelEncode(t, kept, field)
		for i := range kept {
			matrix[i][base+col] = codes[i]
		}
	}

	return matrix, kept
}

// labelEncode assigns each distinct value of the column an integer code in
// sorted order, mirroring how the model was trained.
func labelEncode(t *tabular.Table, kept []int, field string) []float64 {
	distinct := make(map[string]struct{})
	raw := make([]string, len(kept))
	for i, row := range kept {
		v := strings.TrimSpace(t.Cell(row, field))
		raw[i] = v
		distinct[v] = struct{}{}
	}

	labels := make([]string, 0, len(distinct))
	for v := range distinct {
		labels = append(labels, v)
	}
	sort.Strings(labels)

	code := make(map[string]float64, len(labels))
	for i, v := range labels {
		code[v] = float64(i)
	}

	out := make([]float64, len(kept))
	for i, v := range raw {
		out[i] = code[v]
	}
	return out
}

// parseNumeric extracts an integer-ish value from a raw cell. Thousands
// separators are tolerated; anything else is reported missing.
func parseNumeric(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func hasFeatureContent(t *tabular.Table, row int) bool {
	for _, field := range NumericFeatures {
		if strings.TrimSpace(t.Cell(row, field)) != "" {
			return true
		}
	}
	for _, field := range CategoricalFeatures {
		if strings.TrimSpace(t.Cell(row, field)) != "" {
			return true
		}
	}
	return false
}
