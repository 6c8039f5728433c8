package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// SnapshotRepository persists brokerage-derived portfolio data: daily
// snapshots, current positions and watchlists.
type SnapshotRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewSnapshotRepository(db *sqlx.DB, log *logger.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: log}
}

// ListByUser returns a user's snapshots across all linked accounts, oldest
// first. The sampler groups and sums per-day.
func (r *SnapshotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.PortfolioSnapshot, error) {
	query := `
		SELECT id, account_id, user_id, snapshot_date, total_value, profit_loss, created_at
		FROM portfolio_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date ASC`

	snapshots := []entities.PortfolioSnapshot{}
	if err := r.db.SelectContext(ctx, &snapshots, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// ListPositionsByUser returns a user's current holdings across accounts.
func (r *SnapshotRepository) ListPositionsByUser(ctx context.Context, userID uuid.UUID) ([]entities.Position, error) {
	query := `
		SELECT symbol, name, asset_type, quantity, price, market_value
		FROM positions
		WHERE user_id = $1
		ORDER BY symbol ASC`

	positions := []entities.Position{}
	if err := r.db.SelectContext(ctx, &positions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// ListWatchlistSymbols returns the symbols on a user's watchlist.
func (r *SnapshotRepository) ListWatchlistSymbols(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT symbol FROM watchlist_items
		WHERE user_id = $1
		ORDER BY symbol ASC`

	symbols := []string{}
	if err := r.db.SelectContext(ctx, &symbols, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return symbols, nil
}

// ListActiveAccounts returns every linked account eligible for snapshot sync.
func (r *SnapshotRepository) ListActiveAccounts(ctx context.Context) ([]entities.LinkedAccount, error) {
	query := `
		SELECT id, user_id, external_account_id, broker, status, created_at
		FROM linked_accounts
		WHERE status = 'active'
		ORDER BY created_at ASC`

	accounts := []entities.LinkedAccount{}
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	return accounts, nil
}

// UpsertSnapshot writes an account's snapshot for one calendar day. Running
// the sync twice on the same day overwrites rather than duplicating.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot entities.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshots (id, account_id, user_id, snapshot_date, total_value, profit_loss, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (account_id, snapshot_date)
		DO UPDATE SET total_value = EXCLUDED.total_value, profit_loss = EXCLUDED.profit_loss`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.AccountID,
		snapshot.UserID,
		snapshot.Date,
		snapshot.Value,
		snapshot.ProfitLoss,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// ReplacePositions swaps an account's stored holdings for the latest
// brokerage state in one transaction.
func (r *SnapshotRepository) ReplacePositions(ctx context.Context, accountID, userID uuid.UUID, positions []entities.Position) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}

	insert := `
		INSERT INTO positions (id, account_id, user_id, symbol, name, asset_type, quantity, price, market_value, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`
	for _, p := range positions {
		if _, err := tx.ExecContext(ctx, insert,
			uuid.New(), accountID, userID,
			p.Symbol, p.Name, p.AssetType,
			p.Quantity, p.Price, p.MarketValue,
		); err != nil {
			return fmt.Errorf("failed to insert position %s: %w", p.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit positions: %w", err)
	}
	return nil
}
