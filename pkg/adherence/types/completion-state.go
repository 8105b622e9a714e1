package types

// SessionCompletionState is the pre-computed state of one time window of a session instance.
type SessionCompletionState string

const (
	SESSION_STATE_NOT_APPLICABLE    SessionCompletionState = "not_applicable"
	SESSION_STATE_NOT_YET_AVAILABLE SessionCompletionState = "not_yet_available"
	SESSION_STATE_UNSTARTED         SessionCompletionState = "unstarted"
	SESSION_STATE_STARTED           SessionCompletionState = "started"
	SESSION_STATE_COMPLETED         SessionCompletionState = "completed"
	SESSION_STATE_ABANDONED         SessionCompletionState = "abandoned"
	SESSION_STATE_DECLINED          SessionCompletionState = "declined"
	SESSION_STATE_EXPIRED           SessionCompletionState = "expired"
)

// IsStillOpen reports whether the window is available but not yet resolved by the participant.
func (s SessionCompletionState) IsStillOpen() bool {
	return s == SESSION_STATE_UNSTARTED || s == SESSION_STATE_STARTED
}

func (s SessionCompletionState) IsCompliant() bool {
	return s == SESSION_STATE_COMPLETED
}

func (s SessionCompletionState) IsNoncompliant() bool {
	switch s {
	case SESSION_STATE_ABANDONED, SESSION_STATE_DECLINED, SESSION_STATE_EXPIRED:
		return true
	}
	return false
}

// Progression describes where a participant is in the study schedule as a whole.
type Progression string

const (
	PROGRESSION_NO_SCHEDULE Progression = "no_schedule"
	PROGRESSION_UNSTARTED   Progression = "unstarted"
	PROGRESSION_IN_PROGRESS Progression = "in_progress"
	PROGRESSION_DONE        Progression = "done"
)
