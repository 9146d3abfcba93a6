// Package normalize maps raw free-text survey answers to the canonical
// category labels used uniformly across all stores.
//
// Mapping tables live in an embedded YAML document rather than inlined
// logic, so new questionnaire wording ships as a data change. Values with
// no mapping pass through unchanged: downstream consumers tolerate
// evolving wording at the cost of typos becoming new categories.
package normalize

import (
	_ "embed"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var mappingsYAML []byte

// mappingFile is the on-disk shape of the embedded mapping configuration.
type mappingFile struct {
	Version   int                          `yaml:"version"`
	Values    map[string]map[string]string `yaml:"values"`
	Countries map[string]string            `yaml:"countries"`
}

// courseKeywords classifies course titles in priority order: the first
// matching keyword wins, and FOUNDATION is checked before everything else.
// Single-word abbreviations match whole words only, so "BA" does not fire
// inside "BASKET"; multi-word phrases match by containment.
var courseKeywords = []struct {
	keywords []string
	label    string
}{
	{[]string{"FOUNDATION"}, "Foundation"},
	{[]string{"BSC", "BACHELOR OF SCIENCE"}, "BSc"},
	{[]string{"BA", "BACHELOR OF ARTS"}, "BA"},
	{[]string{"MSC", "MASTER OF SCIENCE"}, "MSc"},
	{[]string{"MA", "MASTER OF ARTS"}, "MA"},
	{[]string{"BENG", "BACHELOR OF ENGINEERING"}, "BEng"},
	{[]string{"FDSC"}, "FdSc"},
	{[]string{"MBA"}, "MBA"},
	{[]string{"MRES"}, "MRes"},
	{[]string{"HNC", "HND"}, "HNC/HND"},
	{[]string{"LLB"}, "LLB"},
	{[]string{"BMUS"}, "BMus"},
	{[]string{"APPRENTICESHIP"}, "Apprenticeship"},
	{[]string{"STUDY ABROAD", "EXCHANGES"}, "Exchange"},
}

// Normalizer applies the canonical value mappings.
type Normalizer struct {
	values    map[string]map[string]string
	countries map[string]string
	titler    cases.Caser
}

// New parses the embedded mapping tables.
func New() (*Normalizer, error) {
	var mf mappingFile
	if err := yaml.Unmarshal(mappingsYAML, &mf); err != nil {
		return nil, eris.Wrap(err, "normalize: parse embedded mappings")
	}
	return &Normalizer{
		values:    mf.Values,
		countries: mf.Countries,
		titler:    cases.Title(language.English),
	}, nil
}

// Normalize maps one raw answer for the given field to its canonical value.
// Fields without a lookup table, and values without a mapping, return the
// cleaned input unchanged.
func (n *Normalizer) Normalize(fieldID, raw string) string {
	raw = Clean(raw)

	switch fieldID {
	case "home_country":
		return n.Country(raw)
	case "course_of_study":
		return n.Course(raw)
	case "stress_in_general", "stress_before_exams":
		return Stress(raw)
	}

	if table, ok := n.values[fieldID]; ok {
		if canonical, ok := table[raw]; ok {
			return canonical
		}
	}
	return raw
}

// Country standardizes a country name: exact match against the alias table,
// else a title-cased fallback. The fallback produces a plausible-looking
// label that has not been verified against any country list.
func (n *Normalizer) Country(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return "Unknown"
	}
	if canonical, ok := n.countries[raw]; ok {
		return canonical
	}
	return n.titler.String(strings.ToLower(raw))
}

// Course classifies a course title into a degree-type bucket.
func (n *Normalizer) Course(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return "Other"
	}
	upper := strings.ToUpper(raw)
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return !('A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
	for _, ck := range courseKeywords {
		for _, kw := range ck.keywords {
			if strings.ContainsRune(kw, ' ') {
				if strings.Contains(upper, kw) {
					return ck.label
				}
				continue
			}
			for _, w := range words {
				if w == kw {
					return ck.label
				}
			}
		}
	}
	return "Other"
}

// Stress collapses any stress-related response to Yes/No. Explicit
// negations are checked before the positive substrings so "not stressed"
// does not fire on "stressed"; absence of a positive signal yields No
// even when the text is not an explicit negative.
func Stress(raw string) string {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return "No"
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "not stressed"),
		strings.Contains(lower, "don't have exams"):
		return "No"
	case strings.Contains(lower, "yes"), strings.Contains(lower, "stressed"):
		return "Yes"
	}
	return "No"
}

// GeneralStress joins a multi-select stress answer into a single stored
// string. If any selected option contains "Yes", the "No" options are
// dropped before joining.
func GeneralStress(options []string) string {
	cleaned := make([]string, 0, len(options))
	hasYes := false
	for _, opt := range options {
		opt = Clean(opt)
		if opt == "" {
			continue
		}
		if strings.Contains(opt, "Yes") {
			hasYes = true
		}
		cleaned = append(cleaned, opt)
	}
	if hasYes {
		kept := cleaned[:0]
		for _, opt := range cleaned {
			if opt != "No" {
				kept = append(kept, opt)
			}
		}
		cleaned = kept
	}
	return strings.Join(cleaned, ",")
}

// Age converts a birth year answer to an age in whole years as of now.
// The stored value drifts as calendar years roll over; it is never
// retroactively corrected.
func Age(birthYear string, now time.Time) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(birthYear))
	if err != nil {
		return 0, eris.Wrapf(err, "normalize: parse birth year %q", birthYear)
	}
	return now.Year() - y, nil
}

// Clean strips the mojibake and stray whitespace carried over from the
// historical source spreadsheets.
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, "Â", "")
	return strings.TrimSpace(raw)
}
