package report

import (
	"fmt"
	"sort"
	"strings"
)

// BuildPrompt renders the statistics bundle into the narrative request.
// Field and value ordering is deterministic so identical data produces
// an identical prompt.
func BuildPrompt(s Stats) string {
	var b strings.Builder

	b.WriteString("Create a comprehensive student well-being report with these sections:\n\n")
	b.WriteString("1. Executive Summary\n")

	for i, cat := range Categories {
		fmt.Fprintf(&b, "%d. %s:\n", i+2, cat.Name)
		writeCategory(&b, s.Categories[cat.Name], cat.Fields)
	}

	n := len(Categories) + 2
	fmt.Fprintf(&b, "%d. Percentages Summary\n", n)
	fmt.Fprintf(&b, "%d. Key Findings\n", n+1)
	fmt.Fprintf(&b, "%d. Recommendations\n\n", n+2)

	fmt.Fprintf(&b, "Summary metrics:\n")
	fmt.Fprintf(&b, "- Total records: %d\n", s.Total)
	fmt.Fprintf(&b, "- Predicted at risk (predictions = 1): %d\n", s.AtRisk)
	fmt.Fprintf(&b, "- Predicted not at risk (predictions = 0): %d\n\n", s.NotAtRisk)

	b.WriteString("For each category, analyze the data based on the prediction values (0 or 1) indicating well-being risk. Use bullet points with percentages, and close with an evidence-based conclusion and concrete recommendations.\n")

	return b.String()
}

func writeCategory(b *strings.Builder, fields map[string]FieldStats, order []string) {
	for _, id := range order {
		fs, ok := fields[id]
		if !ok {
			continue
		}
		if fs.Numeric != nil {
			fmt.Fprintf(b, "  - %s: mean %.1f, median %.1f, stddev %.1f\n",
				id, fs.Numeric.Mean, fs.Numeric.Median, fs.Numeric.StdDev)
			continue
		}

		values := make([]string, 0, len(fs.Counts))
		for v := range fs.Counts {
			values = append(values, v)
		}
		sort.Strings(values)

		parts := make([]string, 0, len(values))
		for _, v := range values {
			parts = append(parts, fmt.Sprintf("%s: %d", v, fs.Counts[v]))
		}
		fmt.Fprintf(b, "  - %s: {%s}\n", id, strings.Join(parts, ", "))
	}
}
