package Engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Exchange/Models"
)

func proposal() TaskProposal {
	return TaskProposal{
		Name:      "Water the plants",
		Reward:    decimal.RequireFromString("10"),
		StartTime: testClock,
		EndTime:   testClock.Add(24 * time.Hour),
	}
}

func TestCreateTaskRequest(t *testing.T) {
	e := newTestEngine(t)
	requester := seedUser(t, e, "0", Models.RoleUser)

	request, err := e.CreateTaskRequest(requester, proposal())
	require.NoError(t, err)

	assert.Equal(t, Models.RequestPending, request.Status)
	assert.Equal(t, requester.UID, request.CreatedBy)
	assert.EqualValues(t, 1, logCount(t, e, CategoryTaskRequest))
}

func TestCreateTaskRequestRejectsAdmins(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)

	_, err := e.CreateTaskRequest(admin, proposal())
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestCreateTaskRequestValidation(t *testing.T) {
	e := newTestEngine(t)
	requester := seedUser(t, e, "0", Models.RoleUser)

	tests := []struct {
		name   string
		mutate func(*TaskProposal)
		kind   Kind
	}{
		{"missing name", func(p *TaskProposal) { p.Name = "" }, KindInvalidArgument},
		{"negative reward", func(p *TaskProposal) { p.Reward = decimal.RequireFromString("-1") }, KindInvalidArgument},
		{"end in the past", func(p *TaskProposal) {
			p.StartTime = testClock.Add(-48 * time.Hour)
			p.EndTime = testClock.Add(-24 * time.Hour)
		}, KindInvalidTimeRange},
		{"end before start", func(p *TaskProposal) {
			p.StartTime = testClock.Add(48 * time.Hour)
			p.EndTime = testClock.Add(24 * time.Hour)
		}, KindInvalidTimeRange},
		{"zero interval", func(p *TaskProposal) { p.RecurrenceInterval = intPtr(0) }, KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := proposal()
			tt.mutate(&p)
			_, err := e.CreateTaskRequest(requester, p)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestApproveTaskRequestMaterialisesTask(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	requester := seedUser(t, e, "0", Models.RoleUser)

	request, err := e.CreateTaskRequest(requester, proposal())
	require.NoError(t, err)

	task, err := e.ReviewTaskRequest(admin, request.ID, true, "approved", true, false)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, request.Name, task.Name)
	assert.Equal(t, requester.UID, task.CreatedBy)
	assert.True(t, task.RequireReview)

	// The requester gets their instance in the same operation.
	var instances []Models.UserTask
	require.NoError(t, e.DB.Where("uid = ?", requester.UID).Find(&instances).Error)
	require.Len(t, instances, 1)
	assert.Equal(t, Models.UserTaskOngoing, instances[0].Status)

	var updated Models.TaskRequest
	require.NoError(t, e.DB.First(&updated, "id = ?", request.ID).Error)
	assert.Equal(t, Models.RequestApproved, updated.Status)
}

func TestApproveRecurringRequestFansOut(t *testing.T) {
	e := newTestEngine(t)
	e.RecurrenceHorizon = 12
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	requester := seedUser(t, e, "0", Models.RoleUser)

	p := proposal()
	p.RecurrenceInterval = intPtr(7)
	request, err := e.CreateTaskRequest(requester, p)
	require.NoError(t, err)

	_, err = e.ReviewTaskRequest(admin, request.ID, true, "", false, false)
	require.NoError(t, err)

	var count int64
	e.DB.Model(&Models.UserTask{}).Where("uid = ?", requester.UID).Count(&count)
	assert.EqualValues(t, 12, count)
}

func TestRejectTaskRequest(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	requester := seedUser(t, e, "0", Models.RoleUser)

	request, err := e.CreateTaskRequest(requester, proposal())
	require.NoError(t, err)

	task, err := e.ReviewTaskRequest(admin, request.ID, false, "not needed", false, false)
	require.NoError(t, err)
	assert.Nil(t, task)

	var updated Models.TaskRequest
	require.NoError(t, e.DB.First(&updated, "id = ?", request.ID).Error)
	assert.Equal(t, Models.RequestRejected, updated.Status)
	assert.Equal(t, "not needed", updated.AdminComment)

	// No task and no instances came out of a rejection.
	var count int64
	e.DB.Model(&Models.Task{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestReviewTaskRequestIsTerminal(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	requester := seedUser(t, e, "0", Models.RoleUser)

	request, err := e.CreateTaskRequest(requester, proposal())
	require.NoError(t, err)
	_, err = e.ReviewTaskRequest(admin, request.ID, false, "", false, false)
	require.NoError(t, err)

	_, err = e.ReviewTaskRequest(admin, request.ID, true, "", false, false)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestReviewTaskRequestRequiresAdmin(t *testing.T) {
	e := newTestEngine(t)
	requester := seedUser(t, e, "0", Models.RoleUser)

	request, err := e.CreateTaskRequest(requester, proposal())
	require.NoError(t, err)

	_, err = e.ReviewTaskRequest(requester, request.ID, true, "", false, false)
	assert.Equal(t, KindForbidden, KindOf(err))
}
