package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"coe_backend/internals/features/exam/internal_marks/model"
)

/* ===============================
   MarkValue (absent vs invalid)
=================================*/

// MarkValue is one decoded spreadsheet cell. Spreadsheet decoders emit
// numbers, numeric strings, empty strings and nulls interchangeably, so
// the absent / present-but-invalid distinction is resolved here, once,
// instead of being re-checked all through the pipeline.
type MarkValue struct {
	Present bool
	IsInt   bool
	Value   int

	raw json.RawMessage
}

// MarkOf builds a present, valid value (tests and single-entry path).
func MarkOf(v int) MarkValue {
	return MarkValue{Present: true, IsInt: true, Value: v, raw: json.RawMessage(strconv.Itoa(v))}
}

// Int returns the value as a nullable int; nil when absent or invalid.
func (m MarkValue) Int() *int {
	if !m.Present || !m.IsInt {
		return nil
	}
	v := m.Value
	return &v
}

// UnmarshalJSON never fails: malformed cells become present-but-invalid
// so the row is rejected individually, not the whole request.
func (m *MarkValue) UnmarshalJSON(b []byte) error {
	*m = MarkValue{raw: append(json.RawMessage(nil), b...)}

	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		m.raw = nil
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			m.Present = true
			return nil
		}
		s = strings.TrimSpace(str)
		if s == "" {
			m.raw = nil
			return nil
		}
	}

	m.Present = true
	if n, err := strconv.Atoi(s); err == nil {
		m.IsInt = true
		m.Value = n
	}
	// anything else (fractional, text, bool) stays present-but-invalid
	return nil
}

// MarshalJSON round-trips the original cell so content hashing sees the
// file as submitted.
func (m MarkValue) MarshalJSON() ([]byte, error) {
	if m.raw == nil {
		return []byte("null"), nil
	}
	return m.raw, nil
}

/* ===============================
   ScoreRow
=================================*/

// ScoreRow is one raw input record from the decoded file. It lives only
// for the duration of one batch run.
type ScoreRow struct {
	RegisterNo string `json:"register_no"`
	CourseCode string `json:"course_code"`

	AssignmentMarks   MarkValue `json:"assignment_marks"`
	QuizMarks         MarkValue `json:"quiz_marks"`
	MidTermMarks      MarkValue `json:"mid_term_marks"`
	PresentationMarks MarkValue `json:"presentation_marks"`
	AttendanceMarks   MarkValue `json:"attendance_marks"`
	LabMarks          MarkValue `json:"lab_marks"`
	ProjectMarks      MarkValue `json:"project_marks"`
	SeminarMarks      MarkValue `json:"seminar_marks"`
	VivaMarks         MarkValue `json:"viva_marks"`
	OtherMarks        MarkValue `json:"other_marks"`
	Test1Mark         MarkValue `json:"test_1_mark"`
	Test2Mark         MarkValue `json:"test_2_mark"`
	Test3Mark         MarkValue `json:"test_3_mark"`

	MaxInternalMarks MarkValue `json:"max_internal_marks"`
	Remarks          string    `json:"remarks"`
}

/* ===============================
   Component mapping table
=================================*/

// ComponentField binds one score component to its row field, its display
// label and its ledger column, so validation and reconciliation iterate
// the same bounded set instead of poking at ad hoc string keys.
type ComponentField struct {
	Key   string // json key, also the single-entry internal_type value
	Label string
	Row   func(*ScoreRow) MarkValue
	Model func(*model.InternalMarkModel) **int
}

var scoreComponents = []ComponentField{
	{"assignment_marks", "Assignment Marks",
		func(r *ScoreRow) MarkValue { return r.AssignmentMarks },
		func(m *model.InternalMarkModel) **int { return &m.AssignmentMarks }},
	{"quiz_marks", "Quiz Marks",
		func(r *ScoreRow) MarkValue { return r.QuizMarks },
		func(m *model.InternalMarkModel) **int { return &m.QuizMarks }},
	{"mid_term_marks", "Mid Term Marks",
		func(r *ScoreRow) MarkValue { return r.MidTermMarks },
		func(m *model.InternalMarkModel) **int { return &m.MidTermMarks }},
	{"presentation_marks", "Presentation Marks",
		func(r *ScoreRow) MarkValue { return r.PresentationMarks },
		func(m *model.InternalMarkModel) **int { return &m.PresentationMarks }},
	{"attendance_marks", "Attendance Marks",
		func(r *ScoreRow) MarkValue { return r.AttendanceMarks },
		func(m *model.InternalMarkModel) **int { return &m.AttendanceMarks }},
	{"lab_marks", "Lab Marks",
		func(r *ScoreRow) MarkValue { return r.LabMarks },
		func(m *model.InternalMarkModel) **int { return &m.LabMarks }},
	{"project_marks", "Project Marks",
		func(r *ScoreRow) MarkValue { return r.ProjectMarks },
		func(m *model.InternalMarkModel) **int { return &m.ProjectMarks }},
	{"seminar_marks", "Seminar Marks",
		func(r *ScoreRow) MarkValue { return r.SeminarMarks },
		func(m *model.InternalMarkModel) **int { return &m.SeminarMarks }},
	{"viva_marks", "Viva Marks",
		func(r *ScoreRow) MarkValue { return r.VivaMarks },
		func(m *model.InternalMarkModel) **int { return &m.VivaMarks }},
	{"other_marks", "Other Marks",
		func(r *ScoreRow) MarkValue { return r.OtherMarks },
		func(m *model.InternalMarkModel) **int { return &m.OtherMarks }},
	{"test_1_mark", "Test 1 Mark",
		func(r *ScoreRow) MarkValue { return r.Test1Mark },
		func(m *model.InternalMarkModel) **int { return &m.Test1Mark }},
	{"test_2_mark", "Test 2 Mark",
		func(r *ScoreRow) MarkValue { return r.Test2Mark },
		func(m *model.InternalMarkModel) **int { return &m.Test2Mark }},
	{"test_3_mark", "Test 3 Mark",
		func(r *ScoreRow) MarkValue { return r.Test3Mark },
		func(m *model.InternalMarkModel) **int { return &m.Test3Mark }},
}

// ScoreComponents returns the bounded, ordered component set.
func ScoreComponents() []ComponentField {
	return scoreComponents
}

// ComponentByType resolves a single-entry internal_type (e.g. "quiz",
// "test_1") to its component field.
func ComponentByType(internalType string) (ComponentField, bool) {
	key := strings.ToLower(strings.TrimSpace(internalType))
	if key != "" && !strings.HasSuffix(key, "_marks") && !strings.HasSuffix(key, "_mark") {
		// internal_type values are the bare names; test components use _mark
		if strings.HasPrefix(key, "test_") {
			key += "_mark"
		} else {
			key += "_marks"
		}
	}
	for _, comp := range scoreComponents {
		if comp.Key == key {
			return comp, true
		}
	}
	return ComponentField{}, false
}

// HasAnyComponent reports whether at least one component cell is present.
func (r *ScoreRow) HasAnyComponent() bool {
	for _, comp := range scoreComponents {
		if comp.Row(r).Present {
			return true
		}
	}
	return false
}
