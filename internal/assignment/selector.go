// Package assignment picks individual assignees from team rosters.
package assignment

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Selector deterministically chooses an individual from the roster snapshot.
// Pure function of (team, ticketID, roster); no state beyond the roster.
type Selector struct {
	roster domain.Roster
}

// NewSelector constructs a Selector over the process-wide roster.
func NewSelector(roster domain.Roster) *Selector {
	return &Selector{roster: roster}
}

// Choose returns the roster entry at (ticketID-1) mod len, a round-robin
// across monotonically increasing ticket identities. Returns false when the
// team has no roster.
func (s *Selector) Choose(team string, ticketID int64) (string, bool) {
	members := s.roster.Members(team)
	if len(members) == 0 {
		return "", false
	}
	index := (ticketID - 1) % int64(len(members))
	if index < 0 {
		index += int64(len(members))
	}
	return members[index], true
}
