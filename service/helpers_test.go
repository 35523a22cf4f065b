package service

import (
	"fmt"
	"testing"

	"dinks/config"
	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{fmt.Sprintf("want %s, got %s", want, got)}, msgAndArgs...)...)
}

func testEconomy() config.Economy {
	e := config.DefaultEconomy()
	e.TransactionRetries = 2
	return e
}

func testAccount(userID int64, dinks string) *models.Account {
	return &models.Account{
		UserID:        userID,
		Dinks:         d(dinks),
		Invested:      decimal.Zero,
		Profit:        decimal.Zero,
		Bitcoins:      decimal.Zero,
		RobStolen:     decimal.Zero,
		InterestLevel: 1,
		CapacityLevel: 1,
		RobLevel:      1,
		Version:       1,
	}
}

// newTestUoW returns a unit of work that accepts begin, commit and rollback
// and records every history entry and event it is given.
func newTestUoW() *MockUnitOfWork {
	uow := NewMockUnitOfWork()
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit").Return(nil).Maybe()
	uow.On("Rollback").Return(nil).Maybe()
	uow.History().On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	uow.Events().On("Publish", mock.Anything).Return().Maybe()
	return uow
}

// factoryFor hands out the given units of work in order, one per attempt
func factoryFor(uows ...*MockUnitOfWork) *MockUnitOfWorkFactory {
	factory := new(MockUnitOfWorkFactory)
	for _, uow := range uows {
		factory.On("Create").Return(uow).Once()
	}
	return factory
}

func expectAccount(uow *MockUnitOfWork, account *models.Account) {
	uow.Accounts().On("GetOrCreate", mock.Anything, account.UserID).Return(account, false, nil)
}

func expectUpdate(uow *MockUnitOfWork) {
	uow.Accounts().On("Update", mock.Anything, mock.AnythingOfType("*models.Account")).Return(nil)
}

// recordedHistory returns every balance history entry recorded on uow
func recordedHistory(uow *MockUnitOfWork) []*models.BalanceHistory {
	var out []*models.BalanceHistory
	for _, call := range uow.History().Calls {
		if call.Method == "Record" {
			out = append(out, call.Arguments.Get(1).(*models.BalanceHistory))
		}
	}
	return out
}

// sequenceRandom replays fixed draws. It panics when a draw is out of range
// so a test cannot silently depend on a different die.
type sequenceRandom struct {
	values []int
	next   int
}

func newSequenceRandom(values ...int) *sequenceRandom {
	return &sequenceRandom{values: values}
}

func (r *sequenceRandom) IntN(n int) int {
	if r.next >= len(r.values) {
		panic("sequenceRandom exhausted")
	}
	v := r.values[r.next]
	r.next++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("draw %d out of range [0,%d)", v, n))
	}
	return v
}
