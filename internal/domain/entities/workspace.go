package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkspaceRole string

const (
	WorkspaceRoleOwner  WorkspaceRole = "owner"
	WorkspaceRoleAdmin  WorkspaceRole = "admin"
	WorkspaceRoleMember WorkspaceRole = "member"
)

// Workspace is an opt-in squad whose members share performance with each
// other under the workspace's privacy policy.
type Workspace struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	PolicyJSON  []byte    `json:"-" db:"policy"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Policy returns the workspace privacy policy, defensively parsed.
func (w *Workspace) Policy() WorkspacePrivacyPolicy {
	return ParseWorkspacePrivacyPolicy(w.PolicyJSON)
}

// WorkspaceMember is a user's membership record inside a workspace.
type WorkspaceMember struct {
	WorkspaceID uuid.UUID     `json:"workspace_id" db:"workspace_id"`
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	DisplayName string        `json:"display_name" db:"display_name"`
	Role        WorkspaceRole `json:"role" db:"role"`
	JoinedAt    time.Time     `json:"joined_at" db:"joined_at"`
}

// ActivityType classifies a shared activity event.
type ActivityType string

const (
	ActivityTypeBuy      ActivityType = "buy"
	ActivityTypeSell     ActivityType = "sell"
	ActivityTypeDeposit  ActivityType = "deposit"
	ActivityTypeWithdraw ActivityType = "withdraw"
)

// ActivityEvent is a raw, unredacted trade or transfer event recorded for a
// workspace member. It must never reach a consumer without going through the
// activity service, which strips amounts per the member's resolved privacy.
type ActivityEvent struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	WorkspaceID uuid.UUID        `json:"workspace_id" db:"workspace_id"`
	UserID      uuid.UUID        `json:"user_id" db:"user_id"`
	Type        ActivityType     `json:"type" db:"type"`
	Symbol      string           `json:"symbol" db:"symbol"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" db:"quantity"`
	Amount      *decimal.Decimal `json:"amount,omitempty" db:"amount"`
	OccurredAt  time.Time        `json:"occurred_at" db:"occurred_at"`
}
