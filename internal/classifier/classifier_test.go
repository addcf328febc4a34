package classifier

import (
	"math"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassify_EmptyTextFallsBack(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\n\t ", "nothing matches here at all"} {
		got := Classify(text)
		if got.Category != domain.CategoryOther {
			t.Errorf("Classify(%q).Category = %q, want other", text, got.Category)
		}
		if !almostEqual(got.Confidence, 0.30) {
			t.Errorf("Classify(%q).Confidence = %v, want 0.30", text, got.Confidence)
		}
	}
}

func TestClassify_SingleKeywordPerCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want domain.Category
	}{
		{"I forgot something", domain.CategoryPassword},
		{"anyconnect will not start", domain.CategoryVPN},
		{"my mailbox is full", domain.CategoryEmailOutlook},
		{"toner is out", domain.CategoryPrinter},
		{"the wifi is down", domain.CategoryNetwork},
		{"broken keyboard", domain.CategoryHardware},
		{"need a license", domain.CategorySoftware},
		{"requesting entitlement", domain.CategoryAccessRequest},
	}
	for _, tc := range cases {
		got := Classify(tc.text)
		if got.Category != tc.want {
			t.Errorf("Classify(%q).Category = %q, want %q", tc.text, got.Category, tc.want)
		}
		if !almostEqual(got.Confidence, 0.5) {
			t.Errorf("Classify(%q).Confidence = %v, want 0.5", tc.text, got.Confidence)
		}
	}
}

func TestClassify_RepeatedKeywordCountsOnce(t *testing.T) {
	t.Parallel()

	got := Classify("printer printer printer")
	if got.Category != domain.CategoryPrinter {
		t.Fatalf("category = %q, want printer", got.Category)
	}
	if !almostEqual(got.Confidence, 0.5) {
		t.Errorf("confidence = %v, want 0.5 (keyword counted once)", got.Confidence)
	}
}

func TestClassify_ConfidenceClampedAtPoint9(t *testing.T) {
	t.Parallel()

	// all seven network keywords present: 0.4 + 0.7 would exceed the clamp
	got := Classify("network wifi internet lan wan proxy dns")
	if got.Category != domain.CategoryNetwork {
		t.Fatalf("category = %q, want network", got.Category)
	}
	if !almostEqual(got.Confidence, 0.9) {
		t.Errorf("confidence = %v, want 0.9", got.Confidence)
	}
}

func TestClassify_TieBrokenByDeclarationOrder(t *testing.T) {
	t.Parallel()

	// one password keyword and one vpn keyword: password is declared first
	got := Classify("forgot my vpn")
	if got.Category != domain.CategoryPassword {
		t.Errorf("category = %q, want password (declaration order wins ties)", got.Category)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Classify(strings.ToUpper("Outlook keeps crashing"))
	if got.Category != domain.CategoryEmailOutlook {
		t.Errorf("category = %q, want email_outlook", got.Category)
	}
}
