package styles

import (
	"testing"
)

func TestLookup(t *testing.T) {
	theme, ok := Lookup("solarized-dark")
	if !ok {
		t.Fatal("Lookup('solarized-dark') not found")
	}
	if theme.Name != "Solarized Dark" {
		t.Errorf("expected name 'Solarized Dark', got %q", theme.Name)
	}
	if DefaultTheme.Name != theme.Name {
		t.Errorf("DefaultTheme = %q, want %q", DefaultTheme.Name, theme.Name)
	}
}

func TestLookupMissing(t *testing.T) {
	if _, ok := Lookup("nonexistent"); ok {
		t.Error("expected no theme for nonexistent slug")
	}
}

func TestSlugs(t *testing.T) {
	got := Slugs()
	if len(got) < 10 {
		t.Errorf("expected at least 10 themes, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("slugs not sorted at %d: %q >= %q", i, got[i-1], got[i])
		}
	}
	got[0] = "mutated"
	if Slugs()[0] == "mutated" {
		t.Error("Slugs() exposed its backing array")
	}
}

func TestNextCyclesAllThemes(t *testing.T) {
	all := Slugs()
	seen := map[string]bool{}
	slug := all[0]
	for range all {
		seen[slug] = true
		slug = Next(slug)
	}
	if slug != all[0] {
		t.Errorf("Next did not wrap: ended at %q", slug)
	}
	if len(seen) != len(all) {
		t.Errorf("visited %d themes, want %d", len(seen), len(all))
	}
	if got := Next("nonexistent"); got != all[0] {
		t.Errorf("Next(unknown) = %q, want %q", got, all[0])
	}
}

func TestThemesHaveNames(t *testing.T) {
	for slug, theme := range Themes {
		if theme.Name == "" {
			t.Errorf("theme %q has no display name", slug)
		}
		if theme.Base00 == "" || theme.Base0F == "" {
			t.Errorf("theme %q has an incomplete palette", slug)
		}
	}
}
