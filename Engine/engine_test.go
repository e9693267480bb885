package Engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Exchange/Models"
)

// newTestEngine opens a fresh in-memory database per test so tests never
// share state, and pins the clock to a fixed instant.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	e := New(db)
	e.Now = func() time.Time { return testClock }
	return e
}

var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, e *Engine, credit string, role Models.Role) Actor {
	t.Helper()
	user := Models.User{
		UID:      uuid.NewString(),
		Name:     "Test User",
		Role:     role,
		Email:    uuid.NewString() + "@example.com",
		Password: "hash",
		Credit:   decimal.RequireFromString(credit),
		IsActive: true,
	}
	require.NoError(t, e.DB.Create(&user).Error)
	return Actor{UID: user.UID, Role: user.Role, IsActive: true}
}

func seedItem(t *testing.T, e *Engine, stock, price int) Models.Item {
	t.Helper()
	item := Models.Item{
		ID:    uuid.NewString(),
		Name:  "Widget",
		Stock: stock,
		Price: price,
	}
	require.NoError(t, e.DB.Create(&item).Error)
	return item
}

type taskOptions struct {
	reward        string
	startOffset   time.Duration
	endOffset     time.Duration
	interval      *int
	requireReview bool
	requireProof  bool
}

func seedTask(t *testing.T, e *Engine, opts taskOptions) Models.Task {
	t.Helper()
	if opts.reward == "" {
		opts.reward = "0"
	}
	if opts.endOffset == 0 {
		opts.endOffset = 24 * time.Hour
	}
	task := Models.Task{
		ID:                 uuid.NewString(),
		Name:               "Chore",
		CreatedBy:          "admin",
		Reward:             decimal.RequireFromString(opts.reward),
		StartTime:          testClock.Add(opts.startOffset),
		EndTime:            testClock.Add(opts.endOffset),
		RecurrenceInterval: opts.interval,
		RequireReview:      opts.requireReview,
		RequireProof:       opts.requireProof,
	}
	require.NoError(t, e.DB.Create(&task).Error)
	return task
}

func userCredit(t *testing.T, e *Engine, uid string) decimal.Decimal {
	t.Helper()
	var user Models.User
	require.NoError(t, e.DB.First(&user, "uid = ?", uid).Error)
	return user.Credit
}

func itemStock(t *testing.T, e *Engine, id string) int {
	t.Helper()
	var item Models.Item
	require.NoError(t, e.DB.First(&item, "id = ?", id).Error)
	return item.Stock
}

func logCount(t *testing.T, e *Engine, category string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.DB.Model(&Models.Log{}).Where("cat = ?", category).Count(&count).Error)
	return count
}

func intPtr(n int) *int {
	return &n
}
