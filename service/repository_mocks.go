package service

import (
	"context"
	"time"

	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Account, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddDinks(ctx context.Context, userID int64, amount, valueCap, bitcoinPrice decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount, valueCap, bitcoinPrice)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockAccountRepository) SubtractDinks(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ListAccruing(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockPrisonRepository is a mock implementation of PrisonRepository
type MockPrisonRepository struct {
	mock.Mock
}

func (m *MockPrisonRepository) Get(ctx context.Context, userID int64) (*models.PrisonRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrisonRecord), args.Error(1)
}

func (m *MockPrisonRepository) Create(ctx context.Context, record *models.PrisonRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPrisonRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrisonRepository) DecrementAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPrisonRepository) ReleaseServed(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPrisonRepository) List(ctx context.Context, limit int) ([]*models.PrisonRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrisonRecord), args.Error(1)
}

// MockInterestRunRepository is a mock implementation of InterestRunRepository
type MockInterestRunRepository struct {
	mock.Mock
}

func (m *MockInterestRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestRun), args.Error(1)
}

func (m *MockInterestRunRepository) Create(ctx context.Context, run *models.InterestRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockInterestRunRepository) Finalize(ctx context.Context, run *models.InterestRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockInterestRunRepository) GetLatest(ctx context.Context) (*models.InterestRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestRun), args.Error(1)
}

// MockEconomyStatsRepository is a mock implementation of EconomyStatsRepository
type MockEconomyStatsRepository struct {
	mock.Mock
}

func (m *MockEconomyStatsRepository) Increment(ctx context.Context, name string, amount decimal.Decimal) error {
	args := m.Called(ctx, name, amount)
	return args.Error(0)
}

func (m *MockEconomyStatsRepository) Get(ctx context.Context, name string) (decimal.Decimal, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockPriceSource is a mock implementation of PriceSource
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) BitcoinPrice(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit and
// Rollback are recorded; the repository getters return whatever was set.
type MockUnitOfWork struct {
	mock.Mock

	accountRepo        AccountRepository
	prisonRepo         PrisonRepository
	interestRunRepo    InterestRunRepository
	economyStatsRepo   EconomyStatsRepository
	balanceHistoryRepo BalanceHistoryRepository
	eventBus           EventPublisher
}

// NewMockUnitOfWork creates a unit of work backed by fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		accountRepo:        new(MockAccountRepository),
		prisonRepo:         new(MockPrisonRepository),
		interestRunRepo:    new(MockInterestRunRepository),
		economyStatsRepo:   new(MockEconomyStatsRepository),
		balanceHistoryRepo: new(MockBalanceHistoryRepository),
		eventBus:           new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository { return m.accountRepo }

func (m *MockUnitOfWork) PrisonRepository() PrisonRepository { return m.prisonRepo }

func (m *MockUnitOfWork) InterestRunRepository() InterestRunRepository { return m.interestRunRepo }

func (m *MockUnitOfWork) EconomyStatsRepository() EconomyStatsRepository { return m.economyStatsRepo }

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher { return m.eventBus }

// Accounts returns the account repository mock
func (m *MockUnitOfWork) Accounts() *MockAccountRepository {
	return m.accountRepo.(*MockAccountRepository)
}

// Prison returns the prison repository mock
func (m *MockUnitOfWork) Prison() *MockPrisonRepository {
	return m.prisonRepo.(*MockPrisonRepository)
}

// InterestRuns returns the interest run repository mock
func (m *MockUnitOfWork) InterestRuns() *MockInterestRunRepository {
	return m.interestRunRepo.(*MockInterestRunRepository)
}

// EconomyStats returns the economy stats repository mock
func (m *MockUnitOfWork) EconomyStats() *MockEconomyStatsRepository {
	return m.economyStatsRepo.(*MockEconomyStatsRepository)
}

// History returns the balance history repository mock
func (m *MockUnitOfWork) History() *MockBalanceHistoryRepository {
	return m.balanceHistoryRepo.(*MockBalanceHistoryRepository)
}

// Events returns the event publisher mock
func (m *MockUnitOfWork) Events() *MockEventPublisher {
	return m.eventBus.(*MockEventPublisher)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
