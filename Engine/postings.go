package Engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Exchange/Models"
)

// CreatePosting publishes an open call for applicants against an existing
// task. userLimit of zero means uncapped.
func (e *Engine) CreatePosting(actor Actor, taskID string, userLimit int) (*Models.TaskPosting, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userLimit < 0 {
		return nil, errf(KindInvalidArgument, "user limit cannot be negative")
	}

	var posting Models.TaskPosting
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var task Models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "task %s not found", taskID)
			}
			return err
		}
		posting = Models.TaskPosting{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			UserLimit: userLimit,
			IsOpen:    true,
		}
		if err := tx.Create(&posting).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryPosting, actor,
			fmt.Sprintf("Admin opened posting %s for task %q", posting.ID, task.Name), nil)
	})
	if err != nil {
		return nil, err
	}
	return &posting, nil
}

// ClosePosting stops further applications. Pending applications stay pending
// and can still be reviewed.
func (e *Engine) ClosePosting(actor Actor, postingID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var posting Models.TaskPosting
		if err := forUpdate(tx).First(&posting, "id = ?", postingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "posting %s not found", postingID)
			}
			return err
		}
		if !posting.IsOpen {
			return errf(KindInvalidState, "posting %s is already closed", postingID)
		}
		if err := tx.Model(&posting).Update("is_open", false).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryPosting, actor,
			fmt.Sprintf("Posting %s closed", postingID), nil)
	})
}

// Apply files the caller's bid for a posting's task. One live application per
// user per posting; the applicant cap counts pending and approved bids.
func (e *Engine) Apply(actor Actor, postingID string) (*Models.TaskApplication, error) {
	var application Models.TaskApplication
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var posting Models.TaskPosting
		if err := forUpdate(tx).First(&posting, "id = ?", postingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "posting %s not found", postingID)
			}
			return err
		}
		if !posting.IsOpen {
			return errf(KindInvalidState, "posting %s is closed", postingID)
		}

		var existing int64
		if err := tx.Model(&Models.TaskApplication{}).
			Where("posting = ? AND applicant = ? AND status IN ?",
				posting.ID, actor.UID,
				[]Models.ApplicationStatus{Models.ApplicationPending, Models.ApplicationApproved}).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errf(KindInvalidState, "user %s already applied to posting %s", actor.UID, posting.ID)
		}

		if posting.UserLimit > 0 {
			var taken int64
			if err := tx.Model(&Models.TaskApplication{}).
				Where("posting = ? AND status IN ?", posting.ID,
					[]Models.ApplicationStatus{Models.ApplicationPending, Models.ApplicationApproved}).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(posting.UserLimit) {
				return errf(KindInvalidState, "posting %s is full", posting.ID)
			}
		}

		application = Models.TaskApplication{
			ID:        uuid.NewString(),
			PostingID: posting.ID,
			Applicant: actor.UID,
			Status:    Models.ApplicationPending,
		}
		if err := tx.Create(&application).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryApplication, actor,
			fmt.Sprintf("User %s applied to posting %s", actor.UID, posting.ID),
			map[string]interface{}{"application": application.ID})
	})
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ReviewApplication settles a pending application. Approval fans out the
// applicant's UserTask instances against the posting's task in the same
// transaction. Both outcomes are terminal.
func (e *Engine) ReviewApplication(actor Actor, applicationID string, approve bool, comment string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var application Models.TaskApplication
		if err := forUpdate(tx).First(&application, "id = ?", applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "application %s not found", applicationID)
			}
			return err
		}

		next, err := applicationNext(application.Status, approve)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"status": next, "comment": comment}
		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return err
		}

		if !approve {
			return Emit(tx, CategoryApplication, actor,
				fmt.Sprintf("Admin rejected application %s", application.ID), nil)
		}

		var posting Models.TaskPosting
		if err := tx.First(&posting, "id = ?", application.PostingID).Error; err != nil {
			return err
		}
		var task Models.Task
		if err := tx.First(&task, "id = ?", posting.TaskID).Error; err != nil {
			return err
		}
		if _, err := e.fanOut(tx, task, application.Applicant, Models.UserTaskOngoing); err != nil {
			return err
		}
		return Emit(tx, CategoryApplication, actor,
			fmt.Sprintf("Admin approved application %s for task %q", application.ID, task.Name),
			map[string]interface{}{"application": application.ID, "task": task.ID})
	})
}

// CancelApplication withdraws a pending application. Only the applicant or an
// admin may cancel, and only while the application is still pending.
func (e *Engine) CancelApplication(actor Actor, applicationID string) error {
	return e.DB.Transaction(func(tx *gorm.DB) error {
		var application Models.TaskApplication
		if err := forUpdate(tx).First(&application, "id = ?", applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "application %s not found", applicationID)
			}
			return err
		}
		if err := requireSelfOrAdmin(actor, application.Applicant); err != nil {
			return err
		}
		if application.Status != Models.ApplicationPending {
			return errf(KindInvalidState, "application already %s", application.Status)
		}
		if err := tx.Delete(&application).Error; err != nil {
			return err
		}
		return Emit(tx, CategoryApplication, actor,
			fmt.Sprintf("Application %s cancelled", application.ID), nil)
	})
}
