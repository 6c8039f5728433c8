package snapshotsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/squadfolio/squadfolio_service/internal/adapters/brokerage"
	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) FetchAccountSummary(ctx context.Context, externalAccountID string) (*brokerage.AccountSummary, error) {
	args := m.Called(ctx, externalAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brokerage.AccountSummary), args.Error(1)
}

func (m *MockSource) FetchPositions(ctx context.Context, externalAccountID string) ([]entities.Position, error) {
	args := m.Called(ctx, externalAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Position), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListActiveAccounts(ctx context.Context) ([]entities.LinkedAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LinkedAccount), args.Error(1)
}

func (m *MockStore) UpsertSnapshot(ctx context.Context, snapshot entities.PortfolioSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockStore) ReplacePositions(ctx context.Context, accountID, userID uuid.UUID, positions []entities.Position) error {
	args := m.Called(ctx, accountID, userID, positions)
	return args.Error(0)
}

func testAccount(external string) entities.LinkedAccount {
	return entities.LinkedAccount{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		ExternalAccountID: external,
		Broker:            "alpaca",
		Status:            "active",
	}
}

func TestRunOnce_UpsertsSnapshotForToday(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	account := testAccount("acct-1")
	fixedNow := time.Date(2025, time.July, 31, 18, 45, 0, 0, time.UTC)

	worker := NewWorker(source, store, logger.New("error", "test")).
		WithClock(func() time.Time { return fixedNow })

	store.On("ListActiveAccounts", mock.Anything).
		Return([]entities.LinkedAccount{account}, nil)
	source.On("FetchAccountSummary", mock.Anything, "acct-1").
		Return(&brokerage.AccountSummary{
			AccountID:  "acct-1",
			Equity:     decimal.NewFromInt(12500),
			ProfitLoss: decimal.NewFromInt(500),
		}, nil)
	source.On("FetchPositions", mock.Anything, "acct-1").
		Return([]entities.Position{{Symbol: "AAPL"}}, nil)

	var saved entities.PortfolioSnapshot
	store.On("UpsertSnapshot", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(entities.PortfolioSnapshot)
		}).
		Return(nil)
	store.On("ReplacePositions", mock.Anything, account.ID, account.UserID, mock.Anything).
		Return(nil)

	err := worker.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, account.ID, saved.AccountID)
	assert.Equal(t, account.UserID, saved.UserID)
	// The snapshot lands on the sync day at midnight UTC.
	assert.Equal(t, time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), saved.Date)
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(12500)))
	store.AssertExpectations(t)
}

func TestRunOnce_OneFailingAccountDoesNotStopOthers(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	bad := testAccount("acct-bad")
	good := testAccount("acct-good")

	worker := NewWorker(source, store, logger.New("error", "test"))

	store.On("ListActiveAccounts", mock.Anything).
		Return([]entities.LinkedAccount{bad, good}, nil)
	source.On("FetchAccountSummary", mock.Anything, "acct-bad").
		Return(nil, errors.New("upstream down"))
	source.On("FetchAccountSummary", mock.Anything, "acct-good").
		Return(&brokerage.AccountSummary{Equity: decimal.NewFromInt(100)}, nil)
	source.On("FetchPositions", mock.Anything, "acct-good").
		Return([]entities.Position{}, nil)
	store.On("UpsertSnapshot", mock.Anything, mock.Anything).Return(nil)
	store.On("ReplacePositions", mock.Anything, good.ID, good.UserID, mock.Anything).Return(nil)

	err := worker.RunOnce(context.Background())
	require.NoError(t, err)

	store.AssertNumberOfCalls(t, "UpsertSnapshot", 1)
}

func TestRunOnce_ListFailureIsFatal(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	worker := NewWorker(source, store, logger.New("error", "test"))

	store.On("ListActiveAccounts", mock.Anything).
		Return(nil, errors.New("db gone"))

	err := worker.RunOnce(context.Background())
	assert.Error(t, err)
}
