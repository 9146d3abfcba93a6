package report

import (
	"math"
	"sort"

	"github.com/campuspulse/wellbeing-cli/internal/dashboard"
)

// Category groups related survey fields for statistics and narrative
// sections.
type Category struct {
	Name   string
	Fields []string
}

// Categories is the fixed section order of the report.
var Categories = []Category{
	{
		Name: "Demographic Analysis",
		Fields: []string{
			"home_country", "ethnic_group", "age", "gender",
			"family_earning_class", "student_type_location",
		},
	},
	{
		Name: "Academic Factors Analysis",
		Fields: []string{
			"course_of_study", "level_of_study", "cost_of_study",
			"hours_per_week_lectures", "hours_between_lectures",
		},
	},
	{
		Name:   "Financial Analysis",
		Fields: []string{"financial_support", "financial_problems"},
	},
	{
		Name: "Lifestyle Analysis",
		Fields: []string{
			"stress_before_exams", "stress_in_general", "work_hours_per_week",
			"hours_socialising", "hours_socialmedia", "total_device_hours",
			"diet", "well_hydrated", "alcohol_consumption", "quality_of_life",
		},
	},
	{
		Name: "Psychological and Social Analysis",
		Fields: []string{
			"personality_type", "exercise_per_week", "feel_afraid",
			"known_disabilities",
		},
	},
}

// NumericStats summarizes one numeric field.
type NumericStats struct {
	Mean   float64
	Median float64
	StdDev float64
}

// FieldStats holds either a numeric summary or categorical value counts.
type FieldStats struct {
	Numeric *NumericStats
	Counts  map[string]int
}

// Stats is the full statistics bundle for one report.
type Stats struct {
	Total     int
	AtRisk    int
	NotAtRisk int
	// Categories maps category name to per-field statistics.
	Categories map[string]map[string]FieldStats
}

// Compute derives category statistics from dashboard records. Numeric
// fields get mean/median/sample-stddev; everything else gets value
// counts.
func Compute(records []dashboard.Record) Stats {
	s := Stats{
		Total:      len(records),
		Categories: make(map[string]map[string]FieldStats, len(Categories)),
	}

	for _, rec := range records {
		if v, ok := asNumber(rec["predictions"]); ok && v == 1 {
			s.AtRisk++
		} else {
			s.NotAtRisk++
		}
	}

	for _, cat := range Categories {
		fields := make(map[string]FieldStats, len(cat.Fields))
		for _, id := range cat.Fields {
			fields[id] = fieldStats(records, id)
		}
		s.Categories[cat.Name] = fields
	}
	return s
}

func fieldStats(records []dashboard.Record, id string) FieldStats {
	var nums []float64
	counts := make(map[string]int)
	numeric := true

	for _, rec := range records {
		if v, ok := asNumber(rec[id]); ok {
			nums = append(nums, v)
			continue
		}
		if v, ok := rec[id].(string); ok {
			numeric = false
			counts[v]++
		}
	}

	if numeric && len(nums) > 0 {
		return FieldStats{Numeric: summarize(nums)}
	}
	return FieldStats{Counts: counts}
}

// asNumber accepts both in-process ints and JSON-decoded float64s.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func summarize(nums []float64) *NumericStats {
	var sum float64
	for _, v := range nums {
		sum += v
	}
	mean := sum / float64(len(nums))

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var std float64
	if len(nums) > 1 {
		var ss float64
		for _, v := range nums {
			ss += (v - mean) * (v - mean)
		}
		std = math.Sqrt(ss / float64(len(nums)-1))
	}

	return &NumericStats{Mean: mean, Median: median, StdDev: std}
}
