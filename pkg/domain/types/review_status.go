package types

import "fmt"

// ReviewStatus represents the review-workflow status of a task. A task
// that never entered the review workflow carries no review status at
// all (nil pointer on the model), which is distinct from every code
// below. Codes are fixed platform-wide.
type ReviewStatus int

const (
	ReviewStatusRequested   ReviewStatus = 0
	ReviewStatusApproved    ReviewStatus = 1
	ReviewStatusRejected    ReviewStatus = 2
	ReviewStatusAssisted    ReviewStatus = 3
	ReviewStatusDisputed    ReviewStatus = 4
	ReviewStatusUnnecessary ReviewStatus = 5
)

// AllReviewStatuses returns all valid review statuses
func AllReviewStatuses() []ReviewStatus {
	return []ReviewStatus{
		ReviewStatusRequested,
		ReviewStatusApproved,
		ReviewStatusRejected,
		ReviewStatusAssisted,
		ReviewStatusDisputed,
		ReviewStatusUnnecessary,
	}
}

// IsValid checks if the review status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusRequested,
		ReviewStatusApproved,
		ReviewStatusRejected,
		ReviewStatusAssisted,
		ReviewStatusDisputed,
		ReviewStatusUnnecessary:
		return true
	default:
		return false
	}
}

// String returns the string representation of the review status
func (s ReviewStatus) String() string {
	switch s {
	case ReviewStatusRequested:
		return "REQUESTED"
	case ReviewStatusApproved:
		return "APPROVED"
	case ReviewStatusRejected:
		return "REJECTED"
	case ReviewStatusAssisted:
		return "ASSISTED"
	case ReviewStatusDisputed:
		return "DISPUTED"
	case ReviewStatusUnnecessary:
		return "UNNECESSARY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// ParseReviewStatus parses a numeric code into a ReviewStatus
func ParseReviewStatus(code int) (ReviewStatus, error) {
	status := ReviewStatus(code)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid review status: %d", code)
	}
	return status, nil
}

// Ptr returns a pointer to the review status, for the nullable
// review-status field on Task.
func (s ReviewStatus) Ptr() *ReviewStatus {
	return &s
}
