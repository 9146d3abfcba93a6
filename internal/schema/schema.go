// Package schema is the single source of truth for survey field identifiers,
// their canonical order, and the mapping to human-readable question text.
package schema

// Field pairs a stable machine identifier with the question text shown to
// respondents. The display text is persisted only at export time; the
// identifier row is what column alignment keys on.
type Field struct {
	ID       string
	Question string
}

// Derived field identifiers stamped onto every record at submission time.
const (
	FieldSource      = "source"
	FieldPredictions = "predictions"
	FieldCapturedAt  = "captured_at"
	FieldActual      = "actual"
)

// SentinelOutcome marks a respondent who declined to answer the diagnosis
// question. Rows carrying it are the only rows eligible for prediction
// overwrite during reconciliation.
const SentinelOutcome = "Prefer not to say / I don't know"

// CapturedAtLayout is the display format for submission timestamps.
const CapturedAtLayout = "02.01.2006 15:04"

// fields is the canonical ordered schema. Order is fixed and shared across
// every store; a permutation in a persisted file is tolerated because the
// file's own identifier row is authoritative for its column order.
var fields = []Field{
	{"diet", "1. Would you describe your current diet as healthy and balanced?"},
	{"ethnic_group", "2. What is your ethnic group?"},
	{"hours_per_week_university_work", "3. How many hours per week do you spend on university work?"},
	{"family_earning_class", "4. Which income class would you say your family belongs to?"},
	{"quality_of_life", "5. How would you rate your quality of life?"},
	{"alcohol_consumption", "6. How would you describe your alcohol consumption?"},
	{"personality_type", "7. Would you describe yourself as an introvert or an extrovert?"},
	{"stress_in_general", "8. Do you feel stressed in general?"},
	{"well_hydrated", "9. Do you keep yourself well hydrated during the day?"},
	{"exercise_per_week", "10. How many hours per week do you exercise?"},
	{"known_disabilities", "11. Do you have any known disabilities?"},
	{"work_hours_per_week", "12. How many hours per week do you work in paid employment?"},
	{"financial_support", "13. What is your main source of financial support?"},
	{"form_of_employment", "14. What is your current form of employment?"},
	{"financial_problems", "15. Are you currently experiencing financial problems?"},
	{"home_country", "16. What is your home country?"},
	{"age", "17. What is your year of birth?"},
	{"course_of_study", "18. What course are you studying?"},
	{"stress_before_exams", "19. Do you feel stressed before exams?"},
	{"feel_afraid", "20. How often do you feel afraid without good reason?"},
	{"timetable_preference", "21. What is your timetable preference?"},
	{"timetable_reasons", "22. What are the reasons for your timetable preference?"},
	{"timetable_impact", "23. Does your timetable have an impact on your studies, life or health?"},
	{"total_device_hours", "24. How many hours per week do you spend on electronic devices?"},
	{"hours_socialmedia", "25. How many hours per week do you spend on social media?"},
	{"level_of_study", "26. What is your current level of study?"},
	{"gender", "27. What is your gender?"},
	{"physical_activities", "28. Do physical activities help you manage stress?"},
	{"hours_between_lectures", "29. How many free hours do you typically have between lectures?"},
	{"hours_per_week_lectures", "30. How many hours of lectures do you attend per week?"},
	{"hours_socialising", "31. How many hours per week do you spend socialising?"},
	{"actual", "32. Would you classify yourself or have you been diagnosed with mental health issues by a professional?"},
	{"student_type_time", "33. Are you a full-time or part-time student?"},
	{"student_type_location", "34. Are you a home, European or international student?"},
	{"cost_of_study", "35. What is the annual cost of your study?"},
	{"sense_of_belonging", "36. Do you feel a sense of belonging at your university?"},
	{"mental_health_activities", "37. What activities do you think universities should provide to support mental health?"},
	{FieldSource, "Source"},
	{FieldPredictions, "Predictions"},
	{FieldCapturedAt, "Captured At"},
}

// NumericFields are coerced to integers wherever records are denormalized.
var NumericFields = []string{
	"hours_per_week_university_work",
	"exercise_per_week",
	"work_hours_per_week",
	"total_device_hours",
	"hours_socialmedia",
	"hours_between_lectures",
	"hours_per_week_lectures",
	"hours_socialising",
	"age",
	"cost_of_study",
}

// Schema is an indexed view over the canonical field list.
type Schema struct {
	fields  []Field
	byID    map[string]*Field
	numeric map[string]bool
}

// Default returns the canonical schema.
func Default() *Schema {
	return New(fields)
}

// New builds an indexed Schema from an ordered field list.
func New(fs []Field) *Schema {
	s := &Schema{
		fields:  fs,
		byID:    make(map[string]*Field, len(fs)),
		numeric: make(map[string]bool, len(NumericFields)),
	}
	for i := range s.fields {
		s.byID[s.fields[i].ID] = &s.fields[i]
	}
	for _, id := range NumericFields {
		s.numeric[id] = true
	}
	return s
}

// Fields returns the ordered field list.
func (s *Schema) Fields() []Field {
	return s.fields
}

// IDs returns the field identifiers in canonical order.
func (s *Schema) IDs() []string {
	ids := make([]string, len(s.fields))
	for i, f := range s.fields {
		ids[i] = f.ID
	}
	return ids
}

// Questions returns the display question texts in canonical order.
func (s *Schema) Questions() []string {
	qs := make([]string, len(s.fields))
	for i, f := range s.fields {
		qs[i] = f.Question
	}
	return qs
}

// ByID returns the field for the given identifier, or nil if unknown.
func (s *Schema) ByID(id string) *Field {
	return s.byID[id]
}

// IsNumeric reports whether the field is coerced to an integer when
// denormalized.
func (s *Schema) IsNumeric(id string) bool {
	return s.numeric[id]
}

// Len returns the column count.
func (s *Schema) Len() int {
	return len(s.fields)
}
