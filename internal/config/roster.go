package config

import (
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Recognized event toggles.
const (
	EventToggleTicketCreated = "ticket_created"
	EventToggleAssignment    = "assignment"
)

// ToggleSet is the validated set of broadcast events that fire notifications.
type ToggleSet map[string]bool

// Has reports whether the named event toggle is enabled.
func (t ToggleSet) Has(event string) bool {
	return t[event]
}

// ParseToggles parses a comma-separated toggle list such as
// "ticket_created,assignment". Unknown entries are rejected so a typo in the
// environment fails at start-up instead of silently muting alerts.
func ParseToggles(raw string) (ToggleSet, error) {
	set := ToggleSet{}
	for _, entry := range splitList(raw) {
		switch entry {
		case EventToggleTicketCreated, EventToggleAssignment:
			set[entry] = true
		default:
			return nil, fmt.Errorf("unknown alert event %q (recognized: %s, %s)",
				entry, EventToggleTicketCreated, EventToggleAssignment)
		}
	}
	return set, nil
}

// ParseRoster parses semicolon-separated "Team:email1,email2" groups, e.g.
// "Network:a@x.com,b@y.com;Messaging:c@z.com". Empty input yields an empty
// roster (auto-assignment then never picks anyone).
func ParseRoster(raw string) (domain.Roster, error) {
	roster := domain.Roster{}
	for _, group := range strings.Split(raw, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		team, members, ok := strings.Cut(group, ":")
		if !ok {
			return nil, fmt.Errorf("roster group %q: want Team:email1,email2", group)
		}
		team = strings.TrimSpace(team)
		if team == "" {
			return nil, fmt.Errorf("roster group %q: empty team name", group)
		}
		emails := splitList(members)
		if len(emails) == 0 {
			return nil, fmt.Errorf("roster group %q: no members", group)
		}
		roster[team] = emails
	}
	return roster, nil
}

// ParseContacts parses comma-separated "email:phone" pairs into a contact
// map keyed by lower-cased email.
func ParseContacts(raw string) (domain.ContactMap, error) {
	contacts := domain.ContactMap{}
	for _, pair := range splitList(raw) {
		email, phone, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("contact pair %q: want email:phone", pair)
		}
		email = strings.ToLower(strings.TrimSpace(email))
		phone = strings.TrimSpace(phone)
		if email == "" || phone == "" {
			return nil, fmt.Errorf("contact pair %q: empty email or phone", pair)
		}
		contacts[email] = phone
	}
	return contacts, nil
}

func splitList(raw string) []string {
	var out []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
