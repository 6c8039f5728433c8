// Package privacy implements the privacy resolution engine: it combines a
// user's default settings, a workspace's privacy policy and an optional
// per-workspace override into one effective, per-field disclosure decision,
// and derives the display predicates every consumer must go through.
package privacy

import (
	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
)

// Resolve computes the effective privacy for a (user, workspace) pair.
//
// An enforced-transparency workspace forces maximum disclosure on every
// field and cannot be undercut by the member's own settings. Otherwise each
// field resolves independently: the per-workspace override wins over the
// user default, and the workspace minimum acts as a floor that always
// applies. A member may share more than the workspace minimum, never less.
//
// Resolve is total. A nil policy means no floor and no enforcement; a nil
// override means the user default carries through. Both inputs are assumed
// to have been parsed defensively (entities.ParsePrivacySettings), so every
// field value is on its scale.
func Resolve(userDefault entities.PrivacySettings, policy *entities.WorkspacePrivacyPolicy, override *entities.PrivacySettings) entities.EffectivePrivacy {
	if policy != nil && policy.EnforcedTransparency {
		return entities.EffectivePrivacy{
			PrivacySettings: entities.MaxDisclosureSettings(),
			Source:          entities.SourceEnforced,
		}
	}

	candidate := userDefault
	source := entities.SourceUserDefault
	if override != nil {
		candidate = *override
		source = entities.SourceWorkspaceOverride
	}

	if policy != nil && policy.MinimumSharing != nil {
		candidate = applyFloor(candidate, *policy.MinimumSharing)
	}

	return entities.EffectivePrivacy{
		PrivacySettings: candidate,
		Source:          source,
	}
}

// applyFloor lifts every field to at least the workspace minimum. Each field
// compares on its own rank scale; ties keep the candidate.
func applyFloor(candidate, min entities.PrivacySettings) entities.PrivacySettings {
	if min.PortfolioValue.Rank() > candidate.PortfolioValue.Rank() {
		candidate.PortfolioValue = min.PortfolioValue
	}
	if min.Performance.Rank() > candidate.Performance.Rank() {
		candidate.Performance = min.Performance
	}
	if min.Positions.Rank() > candidate.Positions.Rank() {
		candidate.Positions = min.Positions
	}
	if min.Activity.Rank() > candidate.Activity.Rank() {
		candidate.Activity = min.Activity
	}
	if min.Watchlist.Rank() > candidate.Watchlist.Rank() {
		candidate.Watchlist = min.Watchlist
	}
	return candidate
}
