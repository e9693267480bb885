package Engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"Exchange/Models"
)

// TaskProposal carries the task fields a requester proposes; the admin
// supplies review/proof requirements at approval time.
type TaskProposal struct {
	Name               string
	Description        string
	Reward             decimal.Decimal
	StartTime          time.Time
	EndTime            time.Time
	RecurrenceInterval *int
}

func (p TaskProposal) validate(now time.Time) error {
	if p.Name == "" {
		return errf(KindInvalidArgument, "task name is required")
	}
	if p.Reward.IsNegative() {
		return errf(KindInvalidArgument, "reward cannot be negative")
	}
	if !p.EndTime.After(now) {
		return errf(KindInvalidTimeRange, "end time must be in the future")
	}
	if !p.EndTime.After(p.StartTime) {
		return errf(KindInvalidTimeRange, "end time must be after start time")
	}
	if p.RecurrenceInterval != nil && *p.RecurrenceInterval <= 0 {
		return errf(KindInvalidArgument, "recurrence interval must be positive")
	}
	return nil
}

// CreateTaskRequest files a user's proposal for a new task. Admins are
// rejected here; they create tasks directly instead of requesting them.
func (e *Engine) CreateTaskRequest(actor Actor, proposal TaskProposal) (*Models.TaskRequest, error) {
	if actor.IsAdmin() {
		return nil, errf(KindForbidden, "admins create tasks directly")
	}
	if err := proposal.validate(e.Now()); err != nil {
		return nil, err
	}

	request := Models.TaskRequest{
		ID:                 uuid.NewString(),
		CreatedBy:          actor.UID,
		Name:               proposal.Name,
		Description:        proposal.Description,
		Reward:             proposal.Reward,
		Status:             Models.RequestPending,
		StartTime:          proposal.StartTime,
		EndTime:            proposal.EndTime,
		RecurrenceInterval: proposal.RecurrenceInterval,
	}
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryTaskRequest, actor,
			fmt.Sprintf("User %s requested task %q", actor.UID, request.Name),
			map[string]interface{}{"request": request.ID})
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ReviewTaskRequest settles a pending request. Approval materialises the task
// and fans out the requester's UserTask instances in the same transaction;
// rejection records the admin comment. Both outcomes are terminal.
func (e *Engine) ReviewTaskRequest(actor Actor, requestID string, approve bool, comment string, requireReview, requireProof bool) (*Models.Task, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var task *Models.Task
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var request Models.TaskRequest
		if err := forUpdate(tx).First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "task request %s not found", requestID)
			}
			return err
		}

		next, err := requestNext(request.Status, approve)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"status": next, "admin_comment": comment}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return err
		}

		if !approve {
			return Emit(tx, CategoryTaskRequest, actor,
				fmt.Sprintf("Admin rejected task request %s", request.ID), nil)
		}

		task = &Models.Task{
			ID:                 uuid.NewString(),
			Name:               request.Name,
			CreatedBy:          request.CreatedBy,
			Reward:             request.Reward,
			StartTime:          request.StartTime,
			EndTime:            request.EndTime,
			RecurrenceInterval: request.RecurrenceInterval,
			Description:        request.Description,
			RequireReview:      requireReview,
			RequireProof:       requireProof,
		}
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if _, err := e.fanOut(tx, *task, request.CreatedBy, Models.UserTaskOngoing); err != nil {
			return err
		}
		return Emit(tx, CategoryTaskRequest, actor,
			fmt.Sprintf("Admin approved task request %s as task %s", request.ID, task.ID),
			map[string]interface{}{"request": request.ID, "task": task.ID})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
