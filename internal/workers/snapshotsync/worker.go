// Package snapshotsync refreshes daily portfolio snapshots and current
// holdings for every active linked account.
package snapshotsync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/squadfolio/squadfolio_service/internal/adapters/brokerage"
	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
	"github.com/squadfolio/squadfolio_service/pkg/metrics"
	"github.com/squadfolio/squadfolio_service/pkg/retry"
)

// Source provides the upstream account data.
type Source interface {
	FetchAccountSummary(ctx context.Context, externalAccountID string) (*brokerage.AccountSummary, error)
	FetchPositions(ctx context.Context, externalAccountID string) ([]entities.Position, error)
}

// Store is the persistence surface the worker writes to.
type Store interface {
	ListActiveAccounts(ctx context.Context) ([]entities.LinkedAccount, error)
	UpsertSnapshot(ctx context.Context, snapshot entities.PortfolioSnapshot) error
	ReplacePositions(ctx context.Context, accountID, userID uuid.UUID, positions []entities.Position) error
}

// Worker runs the daily sync. One failing account logs and moves on; the
// other accounts still sync.
type Worker struct {
	source Source
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewWorker(source Source, store Store, log *logger.Logger) *Worker {
	return &Worker{source: source, store: store, logger: log, now: time.Now}
}

// WithClock pins the worker's clock, used by tests.
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	return w
}

// RunOnce syncs every active account: fetches the current summary, upserts
// today's snapshot, and replaces stored positions. Returns an error only when
// the account listing itself fails.
func (w *Worker) RunOnce(ctx context.Context) error {
	metrics.SnapshotSyncRunsTotal.Inc()

	accounts, err := w.store.ListActiveAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for sync: %w", err)
	}
	w.logger.CtxInfo(ctx, "Snapshot sync started", "accounts", len(accounts))

	today := w.now().UTC().Truncate(24 * time.Hour)
	synced := 0
	for _, account := range accounts {
		if err := w.syncAccount(ctx, account, today); err != nil {
			w.logger.CtxWarn(ctx, "Account sync failed",
				"account_id", account.ID,
				"broker", account.Broker,
				"error", err,
			)
			continue
		}
		synced++
	}

	w.logger.CtxInfo(ctx, "Snapshot sync finished", "synced", synced, "failed", len(accounts)-synced)
	return nil
}

func (w *Worker) syncAccount(ctx context.Context, account entities.LinkedAccount, day time.Time) error {
	// Transient upstream failures get a few backed-off retries before the
	// account is skipped for this run.
	var summary *brokerage.AccountSummary
	err := retry.WithExponentialBackoff(ctx, retry.DefaultConfig(), func() error {
		var fetchErr error
		summary, fetchErr = w.source.FetchAccountSummary(ctx, account.ExternalAccountID)
		return fetchErr
	}, retry.IsTemporaryError)
	if err != nil {
		return fmt.Errorf("fetch summary: %w", err)
	}

	snapshot := entities.PortfolioSnapshot{
		ID:         uuid.New(),
		AccountID:  account.ID,
		UserID:     account.UserID,
		Date:       day,
		Value:      summary.Equity,
		ProfitLoss: summary.ProfitLoss,
	}
	if err := w.store.UpsertSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	metrics.SnapshotsUpsertedTotal.Inc()

	positions, err := w.source.FetchPositions(ctx, account.ExternalAccountID)
	if err != nil {
		return fmt.Errorf("fetch positions: %w", err)
	}
	if err := w.store.ReplacePositions(ctx, account.ID, account.UserID, positions); err != nil {
		return fmt.Errorf("replace positions: %w", err)
	}
	return nil
}
