package assignment

import (
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func testRoster() domain.Roster {
	return domain.Roster{
		"Network":   {"a@x.com", "b@x.com", "c@x.com"},
		"Messaging": {"solo@x.com"},
	}
}

func TestChoose_RoundRobin(t *testing.T) {
	t.Parallel()

	s := NewSelector(testRoster())
	cases := []struct {
		ticketID int64
		want     string
	}{
		{1, "a@x.com"},
		{2, "b@x.com"},
		{3, "c@x.com"},
		{4, "a@x.com"},
	}
	for _, tc := range cases {
		got, ok := s.Choose("Network", tc.ticketID)
		if !ok {
			t.Fatalf("Choose(Network, %d) returned no assignee", tc.ticketID)
		}
		if got != tc.want {
			t.Errorf("Choose(Network, %d) = %q, want %q", tc.ticketID, got, tc.want)
		}
	}
}

func TestChoose_WrapsAfterFullCycle(t *testing.T) {
	t.Parallel()

	s := NewSelector(testRoster())
	rosterLen := int64(len(testRoster()["Network"]))

	first, _ := s.Choose("Network", 1)
	wrapped, _ := s.Choose("Network", 1+rosterLen)
	if first != wrapped {
		t.Errorf("Choose(1) = %q, Choose(1+len) = %q, want identical", first, wrapped)
	}
}

func TestChoose_SingleMemberAlwaysChosen(t *testing.T) {
	t.Parallel()

	s := NewSelector(testRoster())
	for id := int64(1); id <= 5; id++ {
		got, ok := s.Choose("Messaging", id)
		if !ok || got != "solo@x.com" {
			t.Errorf("Choose(Messaging, %d) = %q, %v", id, got, ok)
		}
	}
}

func TestChoose_UnknownOrEmptyTeam(t *testing.T) {
	t.Parallel()

	s := NewSelector(domain.Roster{"Empty": {}})
	if _, ok := s.Choose("Empty", 1); ok {
		t.Error("expected no assignee for empty roster")
	}
	if _, ok := s.Choose("Missing", 1); ok {
		t.Error("expected no assignee for unknown team")
	}
}
