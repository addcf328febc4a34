package domain

import "strings"

// Roster maps a team identifier to its ordered list of individual contact
// emails. Loaded once at process start; read-only afterwards.
type Roster map[string][]string

// Members returns the ordered roster for a team, nil when the team is absent.
func (r Roster) Members(team string) []string {
	return r[team]
}

// ContactMap maps an individual's email to a phone number for SMS delivery.
// Lookups are case-insensitive; keys are stored lower-cased.
type ContactMap map[string]string

// Phone returns the phone number for the given email, if one is mapped.
func (m ContactMap) Phone(email string) (string, bool) {
	phone, ok := m[strings.ToLower(strings.TrimSpace(email))]
	return phone, ok
}
