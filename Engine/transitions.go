package Engine

import (
	"Exchange/Models"
)

// Transition legality for every stateful entity lives here, as one table per
// entity, instead of ad hoc status assignments scattered across operations.

type userTaskAction string

const (
	actionSubmit         userTaskAction = "SUBMIT"
	actionApprove        userTaskAction = "APPROVE"
	actionRequestChanges userTaskAction = "REQUEST_CHANGES"
	actionReject         userTaskAction = "REJECT"
	actionCancel         userTaskAction = "CANCEL"
)

var userTaskMoves = map[Models.UserTaskStatus][]userTaskAction{
	Models.UserTaskApplied:          {actionCancel},
	Models.UserTaskOngoing:          {actionSubmit, actionCancel},
	Models.UserTaskChangesRequested: {actionSubmit},
	Models.UserTaskUnderReview:      {actionApprove, actionRequestChanges, actionReject},
	// COMPLETED and REJECTED are terminal.
}

func userTaskAllows(current Models.UserTaskStatus, action userTaskAction) error {
	for _, allowed := range userTaskMoves[current] {
		if allowed == action {
			return nil
		}
	}
	return errf(KindInvalidState, "usertask in status %s does not allow %s", current, action)
}

// requestNext resolves a TaskRequest review decision. PENDING is the only
// non-terminal status.
func requestNext(current Models.RequestStatus, approve bool) (Models.RequestStatus, error) {
	if current != Models.RequestPending {
		return "", errf(KindInvalidState, "task request already %s", current)
	}
	if approve {
		return Models.RequestApproved, nil
	}
	return Models.RequestRejected, nil
}

// applicationNext resolves a TaskApplication review decision.
func applicationNext(current Models.ApplicationStatus, approve bool) (Models.ApplicationStatus, error) {
	if current != Models.ApplicationPending {
		return "", errf(KindInvalidState, "application already %s", current)
	}
	if approve {
		return Models.ApplicationApproved, nil
	}
	return Models.ApplicationRejected, nil
}
