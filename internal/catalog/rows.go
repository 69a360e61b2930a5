package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// row is one flat record as returned by the sheet API. Cells arrive as
// strings, numbers, booleans or null depending on the sheet's formatting.
type row map[string]any

// text returns the first non-empty cell among keys, normalised to a trimmed
// string.
func (r row) text(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case json.Number:
			s = t.String()
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// number parses the first non-empty cell among keys as an integer, returning
// 0 when it is absent or not numeric.
func (r row) number(keys ...string) int {
	s := r.text(keys...)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// id reads a record's identifier with the same fallbacks the share links use.
func (r row) id() string {
	return r.text("ID", "id", "Id", "Name", "name")
}

func decodeCourses(rows []row) []Course {
	out := make([]Course, 0, len(rows))
	for _, r := range rows {
		out = append(out, Course{
			ID:          r.id(),
			Name:        r.text("CourseName", "Name", "name"),
			Description: r.text("Description"),
			Icon:        r.text("Icon"),
		})
	}
	return out
}

func decodeBranches(rows []row) []Branch {
	out := make([]Branch, 0, len(rows))
	for _, r := range rows {
		out = append(out, Branch{
			ID:          r.id(),
			CourseID:    r.text("CourseID", "CourseId", "course_id"),
			Name:        r.text("BranchName", "Name", "name"),
			Description: r.text("Description"),
			University:  r.text("University"),
		})
	}
	return out
}

func decodeSemesters(rows []row) []Semester {
	out := make([]Semester, 0, len(rows))
	for _, r := range rows {
		out = append(out, Semester{
			ID:       r.id(),
			BranchID: r.text("BranchID", "BranchId", "branch_id"),
			Number:   r.text("SemesterNumber", "Number"),
			Name:     r.text("SemesterName", "Name", "name"),
		})
	}
	return out
}

func decodeSubjects(rows []row) []Subject {
	out := make([]Subject, 0, len(rows))
	for _, r := range rows {
		out = append(out, Subject{
			ID:           r.id(),
			SemesterID:   r.text("SemesterID", "SemesterId", "semester_id"),
			Code:         r.text("SubjectCode", "Code"),
			Name:         r.text("SubjectName", "Name", "name"),
			Description:  r.text("Description"),
			Credits:      r.text("Credits"),
			MetaKeywords: r.text("MetaKeywords", "Keywords"),
		})
	}
	return out
}

func decodeResources(rows []row) []Resource {
	out := make([]Resource, 0, len(rows))
	for _, r := range rows {
		out = append(out, Resource{
			ID:          r.id(),
			SubjectID:   r.text("SubjectID", "SubjectId", "subject_id"),
			Type:        r.text("ResourceType", "Type"),
			Title:       r.text("Title"),
			Description: r.text("Description"),
			Link:        r.text("Link", "URL"),
			Language:    r.text("Language"),
			University:  r.text("University"),
			Year:        r.text("Year"),
			Downloads:   r.number("Downloads"),
		})
	}
	return out
}

func decodeUniversities(rows []row) []University {
	out := make([]University, 0, len(rows))
	for _, r := range rows {
		out = append(out, University{
			ID:       r.id(),
			Name:     r.text("UniversityName", "Name", "name"),
			Code:     r.text("Code"),
			Location: r.text("Location"),
		})
	}
	return out
}
