package service

import (
	"fmt"

	"coe_backend/internals/constants"
	enrollsvc "coe_backend/internals/features/exam/enrollments/service"
	"coe_backend/internals/features/exam/internal_marks/dto"
)

// MatchedRow is a ScoreRow that passed both validation phases, paired
// with its resolved enrollment.
type MatchedRow struct {
	RowNumber  int
	Row        *dto.ScoreRow
	Enrollment *enrollsvc.EnrollmentRecord
}

// RowValidator runs the two-phase check: structural match against the
// enrollment index, then the business rules on the score values.
type RowValidator struct {
	Index *enrollsvc.EnrollmentIndex
}

func NewRowValidator(index *enrollsvc.EnrollmentIndex) *RowValidator {
	return &RowValidator{Index: index}
}

// Validate returns either a matched row or the full list of reasons the
// row was rejected. Rejected rows are never written.
func (v *RowValidator) Validate(rowNumber int, row *dto.ScoreRow) (*MatchedRow, *dto.RowValidationError) {
	// Phase 1: structural match. On a miss, narrow the likely cause for
	// the uploader: unknown student, unknown course, or a real pairing gap.
	enrollment, ok := v.Index.Lookup(row.RegisterNo, row.CourseCode)
	if !ok {
		var reason string
		switch {
		case !v.Index.HasRegisterNo(row.RegisterNo):
			reason = fmt.Sprintf("Student with register number %q not found in exam registrations", row.RegisterNo)
		case !v.Index.HasCourseCode(row.CourseCode):
			reason = fmt.Sprintf("Course with code %q not found in exam registrations", row.CourseCode)
		default:
			reason = fmt.Sprintf("No exam registration found for student %q in course %q", row.RegisterNo, row.CourseCode)
		}
		return nil, rowValidationError(rowNumber, row, []string{reason})
	}

	// Phase 2: business rules.
	var reasons []string

	if !row.HasAnyComponent() {
		reasons = append(reasons, "At least one marks type must be provided")
	}

	for _, comp := range dto.ScoreComponents() {
		val := comp.Row(row)
		if !val.Present {
			continue
		}
		switch {
		case !val.IsInt:
			reasons = append(reasons, fmt.Sprintf("%s must be a whole number", comp.Label))
		case val.Value < constants.ComponentMarkMin:
			reasons = append(reasons, fmt.Sprintf("%s cannot be negative", comp.Label))
		case val.Value > constants.ComponentMarkMax:
			reasons = append(reasons, fmt.Sprintf("%s cannot exceed %d", comp.Label, constants.ComponentMarkMax))
		}
	}

	if max := row.MaxInternalMarks; max.Present {
		if !max.IsInt {
			reasons = append(reasons, "Max Internal Marks must be a whole number")
		} else if max.Value <= 0 {
			reasons = append(reasons, "Max Internal Marks must be positive")
		}
	}

	if len(reasons) > 0 {
		return nil, rowValidationError(rowNumber, row, reasons)
	}

	return &MatchedRow{RowNumber: rowNumber, Row: row, Enrollment: enrollment}, nil
}

func rowValidationError(rowNumber int, row *dto.ScoreRow, reasons []string) *dto.RowValidationError {
	return &dto.RowValidationError{
		Row:        rowNumber,
		RegisterNo: orNA(row.RegisterNo),
		CourseCode: orNA(row.CourseCode),
		Errors:     reasons,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
