package Engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Exchange/Models"
)

func TestAssignCreatesSingleInstance(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{reward: "20"})

	instances, err := e.Assign(admin, task.ID, worker.UID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, Models.UserTaskOngoing, instances[0].Status)
	assert.Equal(t, task.StartTime.Unix(), instances[0].StartTime.Unix())
	assert.Equal(t, task.EndTime.Unix(), instances[0].EndTime.Unix())
}

func TestAssignRequiresAdmin(t *testing.T) {
	e := newTestEngine(t)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{})

	_, err := e.Assign(worker, task.ID, worker.UID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRecurringFanOut(t *testing.T) {
	e := newTestEngine(t)
	e.RecurrenceHorizon = 365
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{interval: intPtr(7)})

	instances, err := e.Assign(admin, task.ID, worker.UID)
	require.NoError(t, err)
	require.Len(t, instances, 365)

	for _, i := range []int{0, 1, 100, 364} {
		shift := time.Duration(i*7) * 24 * time.Hour
		assert.Equal(t, task.StartTime.Add(shift).Unix(), instances[i].StartTime.Unix())
		assert.Equal(t, task.EndTime.Add(shift).Unix(), instances[i].EndTime.Unix())
	}
}

func TestFanOutHonoursHorizon(t *testing.T) {
	e := newTestEngine(t)
	e.RecurrenceHorizon = 10
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{interval: intPtr(1)})

	instances, err := e.Assign(admin, task.ID, worker.UID)
	require.NoError(t, err)
	assert.Len(t, instances, 10)
}

func assignOne(t *testing.T, e *Engine, admin Actor, task Models.Task, uid string) Models.UserTask {
	t.Helper()
	instances, err := e.Assign(admin, task.ID, uid)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	return instances[0]
}

func userTaskStatus(t *testing.T, e *Engine, id string) Models.UserTaskStatus {
	t.Helper()
	var userTask Models.UserTask
	require.NoError(t, e.DB.First(&userTask, "id = ?", id).Error)
	return userTask.Status
}

func TestSubmitAutoCompletesAndPays(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "50", Models.RoleUser)
	task := seedTask(t, e, taskOptions{reward: "20"})
	instance := assignOne(t, e, admin, task, worker.UID)

	require.NoError(t, e.Submit(worker, instance.ID, nil))

	assert.Equal(t, Models.UserTaskCompleted, userTaskStatus(t, e, instance.ID))
	assert.Equal(t, "70", userCredit(t, e, worker.UID).String())
}

func TestSubmitWithReviewParksUnderReview(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "50", Models.RoleUser)
	task := seedTask(t, e, taskOptions{reward: "20", requireReview: true})
	instance := assignOne(t, e, admin, task, worker.UID)

	require.NoError(t, e.Submit(worker, instance.ID, nil))

	assert.Equal(t, Models.UserTaskUnderReview, userTaskStatus(t, e, instance.ID))
	// No payout before the review verdict.
	assert.Equal(t, "50", userCredit(t, e, worker.UID).String())
}

func TestSubmitWindowChecks(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)

	past := seedTask(t, e, taskOptions{startOffset: -48 * time.Hour, endOffset: -24 * time.Hour})
	expired := assignOne(t, e, admin, past, worker.UID)
	err := e.Submit(worker, expired.ID, nil)
	assert.Equal(t, KindDeadlinePassed, KindOf(err))
	assert.Equal(t, Models.UserTaskOngoing, userTaskStatus(t, e, expired.ID))

	future := seedTask(t, e, taskOptions{startOffset: 24 * time.Hour, endOffset: 48 * time.Hour})
	early := assignOne(t, e, admin, future, worker.UID)
	err = e.Submit(worker, early.ID, nil)
	assert.Equal(t, KindNotStarted, KindOf(err))
}

func TestSubmitProofRequired(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{requireProof: true})
	instance := assignOne(t, e, admin, task, worker.UID)

	err := e.Submit(worker, instance.ID, nil)
	assert.Equal(t, KindProofRequired, KindOf(err))

	require.NoError(t, e.Submit(worker, instance.ID, []byte("photo")))
	assert.Equal(t, Models.UserTaskCompleted, userTaskStatus(t, e, instance.ID))
}

func TestSubmitOnlyOwnerOrAdmin(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	other := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{})
	instance := assignOne(t, e, admin, task, worker.UID)

	err := e.Submit(other, instance.ID, nil)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestReviewApprovePaysOnce(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "50", Models.RoleUser)
	task := seedTask(t, e, taskOptions{reward: "20", requireReview: true})
	instance := assignOne(t, e, admin, task, worker.UID)

	require.NoError(t, e.Submit(worker, instance.ID, nil))
	require.NoError(t, e.Review(admin, instance.ID, ReviewApprove, "good work"))
	assert.Equal(t, "70", userCredit(t, e, worker.UID).String())

	// A second verdict on a settled instance must not pay again.
	err := e.Review(admin, instance.ID, ReviewApprove, "again")
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, "70", userCredit(t, e, worker.UID).String())
}

func TestReviewRequestChangesAllowsResubmit(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{reward: "5", requireReview: true})
	instance := assignOne(t, e, admin, task, worker.UID)

	require.NoError(t, e.Submit(worker, instance.ID, nil))
	require.NoError(t, e.Review(admin, instance.ID, ReviewRequestChanges, "needs detail"))
	assert.Equal(t, Models.UserTaskChangesRequested, userTaskStatus(t, e, instance.ID))
	assert.Equal(t, "0", userCredit(t, e, worker.UID).String())

	// Resubmission is allowed even after the window, then approval pays.
	require.NoError(t, e.Submit(worker, instance.ID, nil))
	require.NoError(t, e.Review(admin, instance.ID, ReviewApprove, ""))
	assert.Equal(t, "5", userCredit(t, e, worker.UID).String())
}

func TestReviewRejectIsTerminal(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{reward: "5", requireReview: true})
	instance := assignOne(t, e, admin, task, worker.UID)

	require.NoError(t, e.Submit(worker, instance.ID, nil))
	require.NoError(t, e.Review(admin, instance.ID, ReviewReject, "not done"))

	assert.Equal(t, Models.UserTaskRejected, userTaskStatus(t, e, instance.ID))
	assert.Equal(t, "0", userCredit(t, e, worker.UID).String())

	err := e.Submit(worker, instance.ID, nil)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestReviewRequiresUnderReview(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{requireReview: true})
	instance := assignOne(t, e, admin, task, worker.UID)

	err := e.Review(admin, instance.ID, ReviewApprove, "")
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCancelRules(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)

	task := seedTask(t, e, taskOptions{})
	ongoing := assignOne(t, e, admin, task, worker.UID)
	require.NoError(t, e.Cancel(worker, ongoing.ID))

	var count int64
	e.DB.Model(&Models.UserTask{}).Where("id = ?", ongoing.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	reviewed := seedTask(t, e, taskOptions{requireReview: true})
	submitted := assignOne(t, e, admin, reviewed, worker.UID)
	require.NoError(t, e.Submit(worker, submitted.ID, nil))
	err := e.Cancel(worker, submitted.ID)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCancelOnlyOwnerOrAdmin(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "0", Models.RoleUser)
	other := seedUser(t, e, "0", Models.RoleUser)
	task := seedTask(t, e, taskOptions{})
	instance := assignOne(t, e, admin, task, worker.UID)

	err := e.Cancel(other, instance.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, e.Cancel(admin, instance.ID))
}
