package Models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task is the reward-bearing unit of work. Immutable after creation except
// through admin edits. A non-nil RecurrenceInterval (in days) makes the task
// recurring: approving it for a user fans out one UserTask per interval step.
type Task struct {
	ID                 string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name               string          `json:"name" gorm:"type:varchar(255);not null"`
	CreatedBy          string          `json:"created_by" gorm:"type:varchar(36);not null"`
	Reward             decimal.Decimal `json:"reward" gorm:"type:numeric(10,2);default:0"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	RecurrenceInterval *int            `json:"recurrence_interval"`
	Description        string          `json:"description" gorm:"type:text"`
	RequireReview      bool            `json:"require_review" gorm:"default:false"`
	RequireProof       bool            `json:"require_proof" gorm:"default:false"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) IsRecurring() bool {
	return t.RecurrenceInterval != nil && *t.RecurrenceInterval > 0
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// TaskRequest is a non-admin user's proposal for a new task. PENDING until an
// admin approves or rejects it; both outcomes are terminal.
type TaskRequest struct {
	ID                 string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedBy          string          `json:"created_by" gorm:"type:varchar(36);not null;index"`
	Name               string          `json:"name" gorm:"type:varchar(255);not null"`
	Description        string          `json:"description" gorm:"type:text"`
	Reward             decimal.Decimal `json:"reward" gorm:"type:numeric(10,2);default:0"`
	Status             RequestStatus   `json:"status" gorm:"type:varchar(50);not null"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	RecurrenceInterval *int            `json:"recurrence_interval"`
	AdminComment       string          `json:"admin_comment" gorm:"type:text"`
}

func (TaskRequest) TableName() string {
	return "task_requests"
}

// TaskPosting is an admin-published open call for applicants against an
// existing task. UserLimit of zero means uncapped.
type TaskPosting struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TaskID    string `json:"task" gorm:"column:task;type:varchar(36);not null;index"`
	UserLimit int    `json:"user_limit" gorm:"default:0"`
	IsOpen    bool   `json:"is_open" gorm:"default:true"`
}

func (TaskPosting) TableName() string {
	return "task_postings"
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// TaskApplication is a user's bid for a posting's task.
type TaskApplication struct {
	ID        string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostingID string            `json:"posting" gorm:"column:posting;type:varchar(36);not null;index"`
	Applicant string            `json:"applicant" gorm:"type:varchar(36);not null;index"`
	Status    ApplicationStatus `json:"status" gorm:"type:varchar(50);not null"`
	Comment   string            `json:"comment" gorm:"type:text"`
}

func (TaskApplication) TableName() string {
	return "task_applications"
}

type UserTaskStatus string

const (
	UserTaskApplied          UserTaskStatus = "APPLIED"
	UserTaskOngoing          UserTaskStatus = "ONGOING"
	UserTaskUnderReview      UserTaskStatus = "UNDER_REVIEW"
	UserTaskChangesRequested UserTaskStatus = "CHANGES_REQUESTED"
	UserTaskCompleted        UserTaskStatus = "COMPLETED"
	UserTaskRejected         UserTaskStatus = "REJECTED"
)

// UserTask is the assignment of a task to a user for a concrete time window;
// it is the entity that moves through the submission/review lifecycle and the
// only place a reward payout hangs off.
type UserTask struct {
	ID                string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UID               string         `json:"uid" gorm:"type:varchar(36);not null;index"`
	TaskID            string         `json:"task" gorm:"column:task;type:varchar(36);not null;index"`
	StartTime         time.Time      `json:"start_time"`
	EndTime           time.Time      `json:"end_time"`
	Status            UserTaskStatus `json:"status" gorm:"type:varchar(50);not null"`
	ProofOfCompletion []byte         `json:"-" gorm:"type:blob"`
	AdminComment      string         `json:"admin_comment" gorm:"type:text"`
}

func (UserTask) TableName() string {
	return "usertasks"
}
