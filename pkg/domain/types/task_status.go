package types

import "fmt"

// TaskStatus represents the lifecycle status of a task. The numeric
// codes are fixed platform-wide and must not be renumbered.
type TaskStatus int

const (
	TaskStatusCreated       TaskStatus = 0
	TaskStatusFixed         TaskStatus = 1
	TaskStatusFalsePositive TaskStatus = 2
	TaskStatusSkipped       TaskStatus = 3
	TaskStatusDeleted       TaskStatus = 4
	TaskStatusAlreadyFixed  TaskStatus = 5
	TaskStatusTooHard       TaskStatus = 6
	TaskStatusAnswered      TaskStatus = 7
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusCreated,
		TaskStatusFixed,
		TaskStatusFalsePositive,
		TaskStatusSkipped,
		TaskStatusDeleted,
		TaskStatusAlreadyFixed,
		TaskStatusTooHard,
		TaskStatusAnswered,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusCreated,
		TaskStatusFixed,
		TaskStatusFalsePositive,
		TaskStatusSkipped,
		TaskStatusDeleted,
		TaskStatusAlreadyFixed,
		TaskStatusTooHard,
		TaskStatusAnswered:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusCreated:
		return "CREATED"
	case TaskStatusFixed:
		return "FIXED"
	case TaskStatusFalsePositive:
		return "FALSE_POSITIVE"
	case TaskStatusSkipped:
		return "SKIPPED"
	case TaskStatusDeleted:
		return "DELETED"
	case TaskStatusAlreadyFixed:
		return "ALREADY_FIXED"
	case TaskStatusTooHard:
		return "TOO_HARD"
	case TaskStatusAnswered:
		return "ANSWERED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// ParseTaskStatus parses a numeric code into a TaskStatus
func ParseTaskStatus(code int) (TaskStatus, error) {
	status := TaskStatus(code)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid task status: %d", code)
	}
	return status, nil
}
