package entities

import (
	"encoding/json"
)

// Disclosure levels for each privacy field. Every field has its own ordered
// scale from least to most disclosure; the order is defined by the rank
// tables below, not by the declaration order of the constants.
type (
	ValueDisclosure       string
	PerformanceDisclosure string
	PositionsDisclosure   string
	ActivityDisclosure    string
	WatchlistDisclosure   string
)

const (
	ValueHidden      ValueDisclosure = "hidden"
	ValueApproximate ValueDisclosure = "approximate"
	ValueExact       ValueDisclosure = "exact"

	PerformanceHidden  PerformanceDisclosure = "hidden"
	PerformanceVisible PerformanceDisclosure = "visible"

	PositionsHidden      PositionsDisclosure = "hidden"
	PositionsTickersOnly PositionsDisclosure = "tickers_only"
	PositionsFull        PositionsDisclosure = "full"

	ActivityHidden         ActivityDisclosure = "hidden"
	ActivityWithoutAmounts ActivityDisclosure = "without_amounts"
	ActivityFull           ActivityDisclosure = "full"

	WatchlistHidden  WatchlistDisclosure = "hidden"
	WatchlistVisible WatchlistDisclosure = "visible"
)

// Rank tables define each field's scale as data. Adding an intermediate
// disclosure level means adding a row here, not a new branch somewhere.
var (
	valueRanks = map[ValueDisclosure]int{
		ValueHidden:      0,
		ValueApproximate: 1,
		ValueExact:       2,
	}
	performanceRanks = map[PerformanceDisclosure]int{
		PerformanceHidden:  0,
		PerformanceVisible: 1,
	}
	positionsRanks = map[PositionsDisclosure]int{
		PositionsHidden:      0,
		PositionsTickersOnly: 1,
		PositionsFull:        2,
	}
	activityRanks = map[ActivityDisclosure]int{
		ActivityHidden:         0,
		ActivityWithoutAmounts: 1,
		ActivityFull:           2,
	}
	watchlistRanks = map[WatchlistDisclosure]int{
		WatchlistHidden:  0,
		WatchlistVisible: 1,
	}
)

// Rank returns the position of the value on its field's scale. Unknown
// values rank lowest, which keeps every comparison safe for garbage input.
func (v ValueDisclosure) Rank() int       { return valueRanks[v] }
func (v PerformanceDisclosure) Rank() int { return performanceRanks[v] }
func (v PositionsDisclosure) Rank() int   { return positionsRanks[v] }
func (v ActivityDisclosure) Rank() int    { return activityRanks[v] }
func (v WatchlistDisclosure) Rank() int   { return watchlistRanks[v] }

func (v ValueDisclosure) Valid() bool       { _, ok := valueRanks[v]; return ok }
func (v PerformanceDisclosure) Valid() bool { _, ok := performanceRanks[v]; return ok }
func (v PositionsDisclosure) Valid() bool   { _, ok := positionsRanks[v]; return ok }
func (v ActivityDisclosure) Valid() bool    { _, ok := activityRanks[v]; return ok }
func (v WatchlistDisclosure) Valid() bool   { _, ok := watchlistRanks[v]; return ok }

// PrivacySettings is the five-field disclosure profile shared by user
// defaults, per-workspace overrides and workspace minimums. A value of this
// type is always total: construction goes through SanitizePrivacySettings or
// ParsePrivacySettings, which substitute documented defaults for anything
// missing or invalid.
type PrivacySettings struct {
	PortfolioValue ValueDisclosure       `json:"portfolioValue" db:"portfolio_value"`
	Performance    PerformanceDisclosure `json:"performance" db:"performance"`
	Positions      PositionsDisclosure   `json:"positions" db:"positions"`
	Activity       ActivityDisclosure    `json:"activity" db:"activity"`
	Watchlist      WatchlistDisclosure   `json:"watchlist" db:"watchlist"`
}

// DefaultPrivacySettings is the safe default applied to any unspecified field.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		PortfolioValue: ValueApproximate,
		Performance:    PerformanceVisible,
		Positions:      PositionsTickersOnly,
		Activity:       ActivityWithoutAmounts,
		Watchlist:      WatchlistVisible,
	}
}

// MaxDisclosureSettings is the full-transparency profile forced by a
// workspace with enforced transparency.
func MaxDisclosureSettings() PrivacySettings {
	return PrivacySettings{
		PortfolioValue: ValueExact,
		Performance:    PerformanceVisible,
		Positions:      PositionsFull,
		Activity:       ActivityFull,
		Watchlist:      WatchlistVisible,
	}
}

// SanitizePrivacySettings replaces every missing or invalid field with its
// documented default. It is total: any input produces a usable value.
func SanitizePrivacySettings(s PrivacySettings) PrivacySettings {
	def := DefaultPrivacySettings()
	if !s.PortfolioValue.Valid() {
		s.PortfolioValue = def.PortfolioValue
	}
	if !s.Performance.Valid() {
		s.Performance = def.Performance
	}
	if !s.Positions.Valid() {
		s.Positions = def.Positions
	}
	if !s.Activity.Valid() {
		s.Activity = def.Activity
	}
	if !s.Watchlist.Valid() {
		s.Watchlist = def.Watchlist
	}
	return s
}

// ParsePrivacySettings deserializes the wire shape defensively. Malformed
// JSON, missing fields and unknown enum values all fall back to the
// documented defaults; parsing never fails. Strict validation happens only
// on the write path (UpdatePrivacySettingsRequest).
func ParsePrivacySettings(raw []byte) PrivacySettings {
	if len(raw) == 0 {
		return DefaultPrivacySettings()
	}
	var s PrivacySettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultPrivacySettings()
	}
	return SanitizePrivacySettings(s)
}

// UpdatePrivacySettingsRequest is the strict write-path shape. Unlike reads,
// saving settings rejects anything outside the documented enums.
type UpdatePrivacySettingsRequest struct {
	PortfolioValue ValueDisclosure       `json:"portfolioValue" binding:"required,oneof=hidden approximate exact"`
	Performance    PerformanceDisclosure `json:"performance" binding:"required,oneof=hidden visible"`
	Positions      PositionsDisclosure   `json:"positions" binding:"required,oneof=hidden tickers_only full"`
	Activity       ActivityDisclosure    `json:"activity" binding:"required,oneof=hidden without_amounts full"`
	Watchlist      WatchlistDisclosure   `json:"watchlist" binding:"required,oneof=hidden visible"`
}

// Settings converts a validated request into a PrivacySettings value.
func (r UpdatePrivacySettingsRequest) Settings() PrivacySettings {
	return PrivacySettings{
		PortfolioValue: r.PortfolioValue,
		Performance:    r.Performance,
		Positions:      r.Positions,
		Activity:       r.Activity,
		Watchlist:      r.Watchlist,
	}
}

// WorkspacePrivacyPolicy is a workspace's stance on member disclosure.
// MinimumSharing is a floor applied per field; EnforcedTransparency forces
// maximum disclosure on every field and overrides everything else.
type WorkspacePrivacyPolicy struct {
	MinimumSharing       *PrivacySettings `json:"minimumSharing,omitempty"`
	EnforcedTransparency bool             `json:"enforcedTransparency"`
	AllowAnonymousMode   bool             `json:"allowAnonymousMode"`
}

// ParseWorkspacePrivacyPolicy deserializes a stored policy defensively. An
// absent or malformed record means no floor and no enforcement.
func ParseWorkspacePrivacyPolicy(raw []byte) WorkspacePrivacyPolicy {
	if len(raw) == 0 {
		return WorkspacePrivacyPolicy{}
	}
	var p WorkspacePrivacyPolicy
	if err := json.Unmarshal(raw, &p); err != nil {
		return WorkspacePrivacyPolicy{}
	}
	if p.MinimumSharing != nil {
		min := SanitizePrivacySettings(*p.MinimumSharing)
		p.MinimumSharing = &min
	}
	return p
}

// PrivacySource tags where an effective privacy decision came from.
type PrivacySource string

const (
	SourceEnforced          PrivacySource = "enforced"
	SourceWorkspaceOverride PrivacySource = "workspace_override"
	SourceUserDefault       PrivacySource = "user_default"
)

// EffectivePrivacy is the resolved, per-field decision actually enforced for
// a (user, workspace) pair. It is derived fresh on every request and never
// persisted.
type EffectivePrivacy struct {
	PrivacySettings
	Source PrivacySource `json:"source"`
}
