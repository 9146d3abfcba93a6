// Package classifier is the boundary to the pre-trained at-risk model.
// Input is a feature matrix of normalized numeric and encoded categorical
// columns in a fixed declared order; output is a 0/1 prediction per row.
package classifier

import (
	"context"
)

// NumericFeatures is the declared numeric feature order. The model's
// scaling parameters are aligned to this list.
var NumericFeatures = []string{
	"age",
	"hours_socialising",
	"hours_socialmedia",
	"total_device_hours",
	"hours_per_week_university_work",
	"exercise_per_week",
	"work_hours_per_week",
	"hours_between_lectures",
	"hours_per_week_lectures",
	"cost_of_study",
}

// CategoricalFeatures is the declared categorical feature order. Each is
// label-encoded per column before scoring.
var CategoricalFeatures = []string{
	"stress_in_general",
	"stress_before_exams",
	"financial_problems",
	"personality_type",
	"quality_of_life",
	"known_disabilities",
	"diet",
	"alcohol_consumption",
	"well_hydrated",
	"timetable_preference",
	"physical_activities",
	"form_of_employment",
	"student_type_time",
	"level_of_study",
	"gender",
	"ethnic_group",
	"family_earning_class",
	"financial_support",
	"home_country",
	"course_of_study",
	"feel_afraid",
	"timetable_impact",
	"student_type_location",
	"sense_of_belonging",
}

// FeatureCount is the width of the feature matrix.
var FeatureCount = len(NumericFeatures) + len(CategoricalFeatures)

// Classifier scores a feature matrix into binary at-risk predictions, one
// per input row. Implementations are treated as opaque; a failure here is
// load-bearing and aborts the submission that triggered it.
type Classifier interface {
	Predict(ctx context.Context, matrix [][]float64) ([]int, error)
}
