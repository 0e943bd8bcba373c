package alias

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolve_FirstMatchWins(t *testing.T) {
	tables := Default()

	tests := []struct {
		query    string
		category string
		ok       bool
	}{
		{"loan for small shop", "Business & Employment", true},
		{"Scholarship for girls", "Education", true},
		// "women" is declared before "farmer", so it wins
		{"schemes for women farmers", "Women & Child", true},
		// "home" is a substring of "homeopathy"; substring semantics are kept
		{"homeopathy clinic", "Housing", true},
		{"ayushman bharat", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		category, ok := tables.Resolve(tt.query)
		if ok != tt.ok || category != tt.category {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.query, category, ok, tt.category, tt.ok)
		}
	}
}

func TestResolve_DeclarationOrderNotAlphabetical(t *testing.T) {
	tables := &Tables{Aliases: []Entry{
		{"zebra", "Z"},
		{"apple", "A"},
	}}

	category, ok := tables.Resolve("apple zebra")
	if !ok || category != "Z" {
		t.Errorf("expected first declared entry to win, got %q", category)
	}
}

func TestExpansions(t *testing.T) {
	tables := Default()

	got := tables.Expansions("Housing and HEALTH")
	want := []string{"medical", "hospital", "ayushman", "home", "awas", "pradhan mantri awas yojana"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expansions = %v, want %v", got, want)
	}

	if got := tables.Expansions("pension"); len(got) != 0 {
		t.Errorf("expected no expansions, got %v", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := `aliases:
  - keyword: "  Divyang "
    category: Disability
  - keyword: loan
    category: Business & Employment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tables, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if len(tables.Aliases) != 2 {
		t.Fatalf("expected 2 aliases, got %d", len(tables.Aliases))
	}
	if tables.Aliases[0].Keyword != "divyang" {
		t.Errorf("expected keyword to be normalized, got %q", tables.Aliases[0].Keyword)
	}
	if category, _ := tables.Resolve("DIVYANG pension"); category != "Disability" {
		t.Errorf("expected Disability, got %q", category)
	}

	// Synonyms were not in the file, so the defaults are kept
	if len(tables.Synonyms) != len(Default().Synonyms) {
		t.Errorf("expected default synonyms, got %d entries", len(tables.Synonyms))
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.yaml")
	if _, err := LoadFile(missing); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("aliases:\n  - keyword: \"\"\n    category: X\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for empty keyword")
	}
}
