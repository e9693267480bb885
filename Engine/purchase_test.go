package Engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Exchange/Models"
)

func TestBuyDebitsAndReserves(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 10, 5)

	record, err := e.Buy(buyer, item.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, Models.TransactionAwaitingConf, record.Status)
	assert.Equal(t, 3, record.Quantity)
	assert.Equal(t, 7, itemStock(t, e, item.ID))
	assert.Equal(t, "85", userCredit(t, e, buyer.UID).String())
	assert.EqualValues(t, 1, logCount(t, e, CategoryTransaction))
}

func TestBuyInsufficientStock(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 2, 5)

	_, err := e.Buy(buyer, item.ID, 3)
	require.Error(t, err)
	assert.Equal(t, KindInsufficientStock, KindOf(err))

	// Nothing moved.
	assert.Equal(t, 2, itemStock(t, e, item.ID))
	assert.Equal(t, "100", userCredit(t, e, buyer.UID).String())
	assert.EqualValues(t, 0, logCount(t, e, CategoryTransaction))
}

func TestBuyInsufficientFundsReleasesStock(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "10", Models.RoleUser)
	item := seedItem(t, e, 10, 5)

	_, err := e.Buy(buyer, item.ID, 3)
	require.Error(t, err)
	assert.Equal(t, KindInsufficientFunds, KindOf(err))

	// The stock reservation rolled back with the failed debit.
	assert.Equal(t, 10, itemStock(t, e, item.ID))
	assert.Equal(t, "10", userCredit(t, e, buyer.UID).String())

	var count int64
	e.DB.Model(&Models.Transaction{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestBuyInvalidQuantity(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 10, 5)

	for _, qty := range []int{0, -1} {
		_, err := e.Buy(buyer, item.ID, qty)
		require.Error(t, err)
		assert.Equal(t, KindInvalidQuantity, KindOf(err))
	}
	assert.Equal(t, 10, itemStock(t, e, item.ID))
}

func TestBuyUnknownItem(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "100", Models.RoleUser)

	_, err := e.Buy(buyer, "missing", 1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPreorderSkipsStock(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 0, 5)

	record, err := e.Preorder(buyer, item.ID, 4)
	require.NoError(t, err)

	assert.Equal(t, Models.TransactionPreorder, record.Status)
	assert.Equal(t, 0, itemStock(t, e, item.ID))
	assert.Equal(t, "80", userCredit(t, e, buyer.UID).String())
}

func TestPreorderStillRequiresFunds(t *testing.T) {
	e := newTestEngine(t)
	buyer := seedUser(t, e, "10", Models.RoleUser)
	item := seedItem(t, e, 0, 5)

	_, err := e.Preorder(buyer, item.ID, 4)
	require.Error(t, err)
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	assert.Equal(t, "10", userCredit(t, e, buyer.UID).String())
}

func TestCorrectTransaction(t *testing.T) {
	e := newTestEngine(t)
	admin := seedUser(t, e, "0", Models.RoleAdmin)
	buyer := seedUser(t, e, "100", Models.RoleUser)
	item := seedItem(t, e, 0, 5)

	record, err := e.Preorder(buyer, item.ID, 1)
	require.NoError(t, err)

	require.NoError(t, e.CorrectTransaction(admin, record.ID, Models.TransactionAwaitingConf))

	var updated Models.Transaction
	require.NoError(t, e.DB.First(&updated, "id = ?", record.ID).Error)
	assert.Equal(t, Models.TransactionAwaitingConf, updated.Status)

	err = e.CorrectTransaction(admin, record.ID, "SHIPPED")
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	err = e.CorrectTransaction(buyer, record.ID, Models.TransactionPreorder)
	assert.Equal(t, KindForbidden, KindOf(err))
}
