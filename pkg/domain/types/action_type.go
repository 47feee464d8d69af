package types

// ActionType tags an action-log entry with the kind of transition it
// records. The set is closed: the log-append path switches on the tag
// rather than dispatching on open subtypes.
type ActionType string

const (
	ActionTaskClaimed      ActionType = "TASK_CLAIMED"
	ActionTaskReleased     ActionType = "TASK_RELEASED"
	ActionTaskStatusSet    ActionType = "TASK_STATUS_SET"
	ActionQuestionAnswered ActionType = "QUESTION_ANSWERED"
	ActionReviewRequested  ActionType = "REVIEW_REQUESTED"
	ActionReviewStatusSet  ActionType = "REVIEW_STATUS_SET"
)

// IsValid checks if the action type is valid
func (t ActionType) IsValid() bool {
	switch t {
	case ActionTaskClaimed,
		ActionTaskReleased,
		ActionTaskStatusSet,
		ActionQuestionAnswered,
		ActionReviewRequested,
		ActionReviewStatusSet:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action type
func (t ActionType) String() string {
	return string(t)
}
