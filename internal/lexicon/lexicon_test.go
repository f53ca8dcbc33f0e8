package lexicon

import (
	"testing"
)

func TestDefault_CompilesAllTables(t *testing.T) {
	lex := Default()

	if lex.Version != Version {
		t.Errorf("expected version %d, got %d", Version, lex.Version)
	}
	if lex.StrongIndicators.Len() == 0 {
		t.Error("expected strong indicators to be non-empty")
	}
	if lex.Subjects.Len() == 0 {
		t.Error("expected subjects to be non-empty")
	}
	if lex.StrongNegative.Len() == 0 {
		t.Error("expected strong negative table to be non-empty")
	}
}

func TestPhraseSet_WordBoundaries(t *testing.T) {
	set := compileSet([]string{"class", "art"})

	if _, ok := set.First("classic rock compilation"); ok {
		t.Error("'class' must not match inside 'classic'")
	}
	if _, ok := set.First("smart home gadgets"); ok {
		t.Error("'art' must not match inside 'smart'")
	}
	if _, ok := set.First("physics class for beginners"); !ok {
		t.Error("'class' should match as a standalone word")
	}
}

func TestPhraseSet_CaseInsensitive(t *testing.T) {
	set := compileSet([]string{"khan academy"})
	if _, ok := set.First("KHAN ACADEMY Physics"); !ok {
		t.Error("matching should ignore case")
	}
}

func TestPhraseSet_FirstReturnsTableOrder(t *testing.T) {
	set := compileSet([]string{"alpha", "beta"})
	hit, ok := set.First("beta then alpha")
	if !ok || hit != "alpha" {
		t.Errorf("expected first table entry 'alpha', got %q", hit)
	}
}

func TestTrustedChannel(t *testing.T) {
	lex := Default()

	cases := []struct {
		channel string
		want    bool
	}{
		{"Stanford University", true},
		{"Code Academy", true},
		{"Prof. Smith Lectures", true},
		{"GamerZone", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := lex.TrustedChannel(tc.channel); got != tc.want {
			t.Errorf("TrustedChannel(%q) = %v, want %v", tc.channel, got, tc.want)
		}
	}
}

func TestTutorialPhrasing(t *testing.T) {
	lex := Default()

	if !lex.TutorialPhrasing("how to install docker on ubuntu") {
		t.Error("expected tutorial phrasing to match")
	}
	if lex.TutorialPhrasing("cat knocks over vase") {
		t.Error("expected no tutorial phrasing")
	}
}

func TestDefaultWeights_RejectDominates(t *testing.T) {
	w := DefaultWeights()

	// The reject score must sit below any reachable strong cutoff even
	// after clamping.
	if w.ImmediateReject >= 0 {
		t.Error("immediate reject must be negative")
	}
	if w.ImmediateReject < w.ClampMin {
		t.Error("reject score must be representable inside the clamp range")
	}
}
