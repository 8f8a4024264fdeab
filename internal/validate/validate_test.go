package validate

import (
	"strings"
	"testing"

	"organicfoods/internal/domain"
)

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"ada@example.com":    true,
		"  ada@example.com ": true,
		"":                   false,
		"ada":                false,
		"ada@example":        false,
		"a b@example.com":    false,
	}
	for in, want := range cases {
		if _, ok := Email(in); ok != want {
			t.Errorf("Email(%q) ok=%v, want %v", in, ok, want)
		}
	}
}

func TestNameAndAddress(t *testing.T) {
	if _, ok := Name("   "); ok {
		t.Fatal("blank name accepted")
	}
	if got, ok := Name("  Ada Lovelace "); !ok || got != "Ada Lovelace" {
		t.Fatalf("Name trimmed = %q, %v", got, ok)
	}
	if _, ok := Name(strings.Repeat("x", 101)); ok {
		t.Fatal("overlong name accepted")
	}
	if got, ok := Address("1 Farm Lane\nGreenville"); !ok || !strings.Contains(got, "\n") {
		t.Fatalf("multi-line address rejected: %q", got)
	}
	if _, ok := Address(""); ok {
		t.Fatal("empty address accepted")
	}
}

func TestQ(t *testing.T) {
	if q, ok := Q("green apples"); !ok || q != "green apples" {
		t.Fatalf("Q = %q, %v", q, ok)
	}
	if _, ok := Q("<script>"); ok {
		t.Fatal("markup accepted in query")
	}
	if q, ok := Q(strings.Repeat("a", 80)); !ok || len(q) != 50 {
		t.Fatalf("long query not clamped: %d %v", len(q), ok)
	}
}

func TestProductID(t *testing.T) {
	if id, ok := ProductID(" 12 "); !ok || id != domain.ProductID(12) {
		t.Fatalf("ProductID = %v, %v", id, ok)
	}
	for _, bad := range []string{"", "-1", "1e3", "abc", "12345678901234567890"} {
		if _, ok := ProductID(bad); ok {
			t.Errorf("ProductID(%q) accepted", bad)
		}
	}
}
