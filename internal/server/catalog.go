package server

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// catalogEntry is one row of an institution's course catalog
// spreadsheet: a course and the department that owns it.
type catalogEntry struct {
	Department string
	Course     string
}

// loadCatalog reads a single-header course catalog. Column order
// follows the upstream files: Courses first, Departments second, with a
// header-name lookup so reordered files still parse.
func loadCatalog(path string) ([]catalogEntry, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "server: open course catalog")
	}
	if len(f.Sheets) == 0 || len(f.Sheets[0].Rows) == 0 {
		return nil, nil
	}

	rows := f.Sheets[0].Rows
	courseCol, deptCol := 0, 1
	for i, c := range rows[0].Cells {
		switch strings.ToLower(strings.TrimSpace(c.String())) {
		case "courses":
			courseCol = i
		case "departments":
			deptCol = i
		}
	}

	var entries []catalogEntry
	for _, row := range rows[1:] {
		e := catalogEntry{
			Course:     strings.TrimSpace(catalogCell(row, courseCol)),
			Department: strings.TrimSpace(catalogCell(row, deptCol)),
		}
		if e.Course == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// uniqueCourses preserves first-seen order.
func uniqueCourses(entries []catalogEntry) []string {
	seen := make(map[string]bool, len(entries))
	var out []string
	for _, e := range entries {
		if seen[e.Course] {
			continue
		}
		seen[e.Course] = true
		out = append(out, e.Course)
	}
	return out
}

// departmentCourses groups courses per department, dropping rows with
// no department.
func departmentCourses(entries []catalogEntry) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entries {
		if e.Department == "" {
			continue
		}
		out[e.Department] = append(out[e.Department], e.Course)
	}
	return out
}

func catalogCell(row *xlsx.Row, i int) string {
	if row == nil || i < 0 || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i].String()
}
