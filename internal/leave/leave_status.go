package leave

import (
	"strings"

	leaveerrors "go-leave/internal/leave/errors"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists every allowed move. Approved leave can still be revoked
// or cancelled; rejected and cancelled requests are final.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusRejected, StatusCancelled},
}

// ParseStatus accepts a review target. PENDING is never a valid target.
func ParseStatus(v string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(v))); s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return s, nil
	default:
		return "", leaveerrors.ErrInvalidStatus
	}
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
