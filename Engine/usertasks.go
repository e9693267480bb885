package Engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Exchange/Models"
)

// ReviewAction is an admin's verdict on a submitted UserTask.
type ReviewAction string

const (
	ReviewApprove        ReviewAction = "APPROVE"
	ReviewRequestChanges ReviewAction = "REQUEST_CHANGES"
	ReviewReject         ReviewAction = "REJECT"
)

// fanOut creates the UserTask instances for one user against one task, as a
// single batch insert inside the caller's transaction. Non-recurring tasks
// get exactly one instance; recurring ones get RecurrenceHorizon instances
// with windows shifted by i*interval days.
func (e *Engine) fanOut(tx *gorm.DB, task Models.Task, uid string, status Models.UserTaskStatus) ([]Models.UserTask, error) {
	count := 1
	interval := 0
	if task.IsRecurring() {
		count = e.RecurrenceHorizon
		interval = *task.RecurrenceInterval
	}

	instances := make([]Models.UserTask, 0, count)
	for i := 0; i < count; i++ {
		shift := time.Duration(i*interval) * 24 * time.Hour
		instances = append(instances, Models.UserTask{
			ID:        uuid.NewString(),
			UID:       uid,
			TaskID:    task.ID,
			StartTime: task.StartTime.Add(shift),
			EndTime:   task.EndTime.Add(shift),
			Status:    status,
		})
	}
	if err := tx.Create(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// Assign directly assigns a task to a user, admin only. Instances start
// ONGOING; the open-application path starts them APPLIED instead.
func (e *Engine) Assign(actor Actor, taskID, uid string) ([]Models.UserTask, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var instances []Models.UserTask
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var task Models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "task %s not found", taskID)
			}
			return err
		}
		var user Models.User
		if err := tx.First(&user, "uid = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "user %s not found", uid)
			}
			return err
		}
		var err error
		instances, err = e.fanOut(tx, task, uid, Models.UserTaskOngoing)
		if err != nil {
			return err
		}
		return Emit(tx, CategoryUserTask, actor,
			fmt.Sprintf("Admin assigned task %q to user %s (%d instance(s))", task.Name, uid, len(instances)),
			map[string]interface{}{"task": task.ID, "uid": uid})
	})
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// Submit hands in a UserTask. Allowed from ONGOING (inside the task window)
// and CHANGES_REQUESTED (resubmission, window already validated first time).
// Tasks that require review park in UNDER_REVIEW; everything else completes
// and pays the reward immediately. The payout happens at this transition and
// nowhere else on the no-review path.
func (e *Engine) Submit(actor Actor, userTaskID string, proof []byte) error {
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var userTask Models.UserTask
		if err := forUpdate(tx).First(&userTask, "id = ?", userTaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "usertask %s not found", userTaskID)
			}
			return err
		}
		if err := requireSelfOrAdmin(actor, userTask.UID); err != nil {
			return err
		}
		if err := userTaskAllows(userTask.Status, actionSubmit); err != nil {
			return err
		}

		if userTask.Status == Models.UserTaskOngoing {
			now := e.Now()
			if now.After(userTask.EndTime) {
				return errf(KindDeadlinePassed, "submission window closed at %s", userTask.EndTime.Format(time.RFC3339))
			}
			if now.Before(userTask.StartTime) {
				return errf(KindNotStarted, "submission window opens at %s", userTask.StartTime.Format(time.RFC3339))
			}
		}

		var task Models.Task
		if err := tx.First(&task, "id = ?", userTask.TaskID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if len(proof) > 0 {
			userTask.ProofOfCompletion = proof
			updates["proof_of_completion"] = proof
		}
		if task.RequireProof && len(userTask.ProofOfCompletion) == 0 {
			return errf(KindProofRequired, "task %q requires proof of completion", task.Name)
		}

		if task.RequireReview {
			updates["status"] = Models.UserTaskUnderReview
			if err := tx.Model(&userTask).Updates(updates).Error; err != nil {
				return err
			}
			return Emit(tx, CategoryUserTask, actor,
				fmt.Sprintf("UserTask %s submitted for review", userTask.ID), nil)
		}

		updates["status"] = Models.UserTaskCompleted
		if err := tx.Model(&userTask).Updates(updates).Error; err != nil {
			return err
		}
		if err := credit(tx, userTask.UID, task.Reward); err != nil {
			return err
		}
		return Emit(tx, CategoryUserTask, actor,
			fmt.Sprintf("UserTask %s completed, %s credits paid to %s", userTask.ID, task.Reward, userTask.UID),
			map[string]interface{}{"usertask": userTask.ID, "reward": task.Reward.String()})
	})
}

// Review settles an UNDER_REVIEW submission, admin only. APPROVE completes
// and pays the reward, REQUEST_CHANGES returns the task to a submit-eligible
// state without payout, REJECT is terminal without payout.
func (e *Engine) Review(actor Actor, userTaskID string, action ReviewAction, comment string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var userTask Models.UserTask
		if err := forUpdate(tx).First(&userTask, "id = ?", userTaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "usertask %s not found", userTaskID)
			}
			return err
		}

		var next Models.UserTaskStatus
		var move userTaskAction
		switch action {
		case ReviewApprove:
			next, move = Models.UserTaskCompleted, actionApprove
		case ReviewRequestChanges:
			next, move = Models.UserTaskChangesRequested, actionRequestChanges
		case ReviewReject:
			next, move = Models.UserTaskRejected, actionReject
		default:
			return errf(KindInvalidArgument, "unknown review action %q", action)
		}
		if err := userTaskAllows(userTask.Status, move); err != nil {
			return err
		}

		updates := map[string]interface{}{"status": next, "admin_comment": comment}
		if err := tx.Model(&userTask).Updates(updates).Error; err != nil {
			return err
		}

		if next == Models.UserTaskCompleted {
			var task Models.Task
			if err := tx.First(&task, "id = ?", userTask.TaskID).Error; err != nil {
				return err
			}
			if err := credit(tx, userTask.UID, task.Reward); err != nil {
				return err
			}
			return Emit(tx, CategoryUserTask, actor,
				fmt.Sprintf("UserTask %s approved, %s credits paid to %s", userTask.ID, task.Reward, userTask.UID),
				map[string]interface{}{"usertask": userTask.ID, "reward": task.Reward.String()})
		}
		return Emit(tx, CategoryUserTask, actor,
			fmt.Sprintf("UserTask %s reviewed: %s", userTask.ID, action), nil)
	})
}

// Cancel deletes an APPLIED or ONGOING UserTask. Paid or in-review instances
// stay put so the audit trail behind payouts remains intact.
func (e *Engine) Cancel(actor Actor, userTaskID string) error {
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var userTask Models.UserTask
		if err := forUpdate(tx).First(&userTask, "id = ?", userTaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "usertask %s not found", userTaskID)
			}
			return err
		}
		if err := requireSelfOrAdmin(actor, userTask.UID); err != nil {
			return err
		}
		if err := userTaskAllows(userTask.Status, actionCancel); err != nil {
			return err
		}
		if err := tx.Delete(&userTask).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryUserTask, actor,
			fmt.Sprintf("UserTask %s cancelled", userTask.ID), nil)
	})
}
