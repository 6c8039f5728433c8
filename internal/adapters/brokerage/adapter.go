package brokerage

import (
	"context"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

// Adapter converts provider wire types into domain entities for the sync
// worker.
type Adapter struct {
	client *Client
}

func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// FetchAccountSummary returns an account's current equity and profit/loss.
func (a *Adapter) FetchAccountSummary(ctx context.Context, externalAccountID string) (*AccountSummary, error) {
	return a.client.GetAccountSummary(ctx, externalAccountID)
}

// FetchPositions returns an account's holdings as domain positions.
func (a *Adapter) FetchPositions(ctx context.Context, externalAccountID string) ([]entities.Position, error) {
	raw, err := a.client.ListPositions(ctx, externalAccountID)
	if err != nil {
		return nil, err
	}

	positions := make([]entities.Position, 0, len(raw))
	for _, p := range raw {
		qty, price, mv := p.Quantity, p.Price, p.MarketValue
		positions = append(positions, entities.Position{
			Symbol:      p.Symbol,
			Name:        p.Name,
			AssetType:   p.AssetType,
			Quantity:    &qty,
			Price:       &price,
			MarketValue: &mv,
		})
	}
	return positions, nil
}
