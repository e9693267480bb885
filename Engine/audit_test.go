package Engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Exchange/Models"
)

func TestEveryOperationLeavesOneAuditEntry(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	worker := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 5, 2)
	task := seedTask(t, e, taskOptions{reward: "5"})

	_, err := e.Buy(worker, item.ID, 1)
	require.NoError(t, err)
	_, err = e.Assign(admin, task.ID, worker.UID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, logCount(t, e, CategoryTransaction))
	assert.EqualValues(t, 1, logCount(t, e, CategoryUserTask))
}

func TestFailedOperationLeavesNoAuditEntry(t *testing.T) {
	e := newTestEngine(t)
	worker := seedUser(t, e, "1", Models.RoleUser)
	item := seedItem(t, e, 5, 100)

	_, err := e.Buy(worker, item.ID, 1)
	require.Error(t, err)

	var count int64
	e.DB.Model(&Models.Log{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAuditEntryCarriesActor(t *testing.T) {
	e := newTestEngine(t)
	worker := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 5, 2)

	_, err := e.Buy(worker, item.ID, 1)
	require.NoError(t, err)

	var entry Models.Log
	require.NoError(t, e.DB.First(&entry, "cat = ?", CategoryTransaction).Error)
	require.NotNil(t, entry.UID)
	assert.Equal(t, worker.UID, *entry.UID)
	assert.NotEmpty(t, entry.Details)
}

func TestSystemActorEntryHasNullUID(t *testing.T) {
	e := newTestEngine(t)
	task := seedTask(t, e, taskOptions{})

	posting, err := e.CreatePosting(SystemActor, task.ID, 0)
	require.NoError(t, err)
	require.NoError(t, e.ClosePosting(SystemActor, posting.ID))

	var entries []Models.Log
	require.NoError(t, e.DB.Where("cat = ?", CategoryPosting).Find(&entries).Error)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Nil(t, entry.UID)
	}
}
