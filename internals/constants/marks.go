package constants

// =======================
// Marks ledger statuses
// =======================
const (
	MarksStatusDraft     = "Draft"
	MarksStatusSubmitted = "Submitted"
	MarksStatusApproved  = "Approved"
)

// =======================
// Upload batch lifecycle
// =======================
const (
	BatchStatusPending   = "Pending"
	BatchStatusCompleted = "Completed"
	BatchStatusPartial   = "Partial"
	BatchStatusFailed    = "Failed"
)

const UploadTypeMarks = "Marks"

// Per-component bounds. Components are whole marks out of 100; the
// record-level max_internal_marks only scales the percentage.
const (
	ComponentMarkMin = 0
	ComponentMarkMax = 100
)

const DefaultMaxInternalMarks = 100

// IsValidMarksStatus reports whether s is one of the ledger statuses.
func IsValidMarksStatus(s string) bool {
	switch s {
	case MarksStatusDraft, MarksStatusSubmitted, MarksStatusApproved:
		return true
	}
	return false
}
