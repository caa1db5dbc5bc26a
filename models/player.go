package models

import "time"

// UnknownPlayerName is shown when a player's profile is missing
const UnknownPlayerName = "Unknown User"

// Player is an authenticated Discord user. GroupIDs mirrors the guilds the
// user belonged to at the last sync and is owned by the auth flow.
type Player struct {
	DiscordID      int64
	Username       string
	Avatar         string
	GroupIDs       []int64
	AccessToken    string
	GroupsSyncedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName returns the username, or a placeholder when it is empty
func (p *Player) DisplayName() string {
	if p == nil || p.Username == "" {
		return UnknownPlayerName
	}
	return p.Username
}

// InGroup reports whether the player belongs to groupID
func (p *Player) InGroup(groupID int64) bool {
	for _, id := range p.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// GroupsStale reports whether the group list should be refetched
func (p *Player) GroupsStale(now time.Time, maxAge time.Duration) bool {
	return p.GroupsSyncedAt == nil || now.Sub(*p.GroupsSyncedAt) > maxAge
}
