package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
)

func newScorer() *Scorer {
	return New(lexicon.Default())
}

func TestScore_Deterministic(t *testing.T) {
	s := newScorer()
	rec := domain.Record{
		Title:       "Calculus Lecture 5: Integration by Parts",
		ChannelName: "Math Academy",
	}

	first := s.Score(rec)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Score, s.Score(rec).Score)
	}
}

func TestScore_UniversityLecture(t *testing.T) {
	s := newScorer()
	res := s.Score(domain.Record{
		Title:       "Lecture 3: Limits and Derivatives | MIT Calculus",
		ChannelName: "MIT OpenCourseWare",
	})

	// Two strong indicators (lecture, mit), two subjects (calculus,
	// limits), one structured-series hit.
	assert.False(t, res.ImmediateReject)
	assert.Equal(t, 80, res.Score)
	assert.Equal(t, 2, res.StrongMatches)
	assert.Equal(t, 2, res.SubjectMatches)
}

func TestScore_MusicVideoImmediateReject(t *testing.T) {
	s := newScorer()
	res := s.Score(domain.Record{
		Title:       "OFFICIAL MUSIC VIDEO - New Single 2026",
		ChannelName: "Pop Star",
	})

	require.True(t, res.ImmediateReject)
	assert.Equal(t, -300, res.Score)
	// The reject short-circuits: no other pool contributes.
	require.Len(t, res.Breakdown, 1)
	assert.True(t, strings.HasPrefix(res.Breakdown[0].Reason, "immediate-reject:"))
}

func TestScore_EduContextSuppressesReject(t *testing.T) {
	s := newScorer()
	res := s.Score(domain.Record{
		Title: "Music Theory Course: Intervals and Chords",
	})

	// "music" is a reject term, but "course" is a context marker.
	assert.False(t, res.ImmediateReject)
	assert.Greater(t, res.Score, -300)
}

func TestScore_RejectPrecedesEverything(t *testing.T) {
	s := newScorer()
	// Strong positive signals cannot rescue a context-free reject hit.
	res := s.Score(domain.Record{
		Title: "Best songs playlist",
	})

	require.True(t, res.ImmediateReject)
	assert.Equal(t, -300, res.Score)
}

func TestScore_StrongIndicatorCap(t *testing.T) {
	s := newScorer()
	res := s.Score(domain.Record{
		Title: "University professor lecture seminar workshop",
	})

	// Five strong hits counted, only two paid.
	assert.Equal(t, 5, res.StrongMatches)
	paid := 0
	for _, d := range res.Breakdown {
		if strings.HasPrefix(d.Reason, "strong:") {
			paid++
		}
	}
	assert.Equal(t, 2, paid)
}

func TestScore_TrustedChannelBonus(t *testing.T) {
	s := newScorer()
	// "scholar" appears only in the trusted-channel table, so the score
	// difference isolates the trusted bonus.
	with := s.Score(domain.Record{Title: "Some title", ChannelName: "Scholar Stream"})
	without := s.Score(domain.Record{Title: "Some title", ChannelName: "Random Stream"})

	assert.True(t, with.TrustedChannel)
	assert.False(t, without.TrustedChannel)
	assert.Equal(t, 60, with.Score-without.Score)
}

func TestScore_TitlePenalties(t *testing.T) {
	s := newScorer()

	base := s.Score(domain.Record{Title: "quantum mechanics overview"})
	punct := s.Score(domain.Record{Title: "quantum mechanics overview!!"})
	assert.Equal(t, -8, punct.Score-base.Score, "excess punctuation penalty")

	caps := s.Score(domain.Record{Title: "QUANTUM MECHANICS OVERVIEW"})
	assert.Equal(t, -12, caps.Score-base.Score, "all-caps penalty")
}

func TestScore_AllCapsNeedsLength(t *testing.T) {
	s := newScorer()
	short := s.Score(domain.Record{Title: "DSA"})
	for _, d := range short.Breakdown {
		assert.NotEqual(t, "all-caps-title", d.Reason)
	}
}

func TestScore_HowToWithoutContext(t *testing.T) {
	s := newScorer()
	res := s.Score(domain.Record{Title: "how to look taller"})

	found := false
	for _, d := range res.Breakdown {
		if d.Reason == "how-to-no-context" {
			found = true
			assert.Equal(t, -6, d.Delta)
		}
	}
	assert.True(t, found, "expected the contextless how-to penalty")

	// A subject hit suppresses the penalty.
	withSubject := s.Score(domain.Record{Title: "how to solve calculus problems"})
	for _, d := range withSubject.Breakdown {
		assert.NotEqual(t, "how-to-no-context", d.Reason)
	}
}

func TestScore_ClampedToRange(t *testing.T) {
	s := newScorer()
	// Stack every positive pool well past the ceiling.
	res := s.Score(domain.Record{
		Title:       "MIT Harvard Stanford lecture course calculus physics part 1 complete course exam prep study revision",
		ChannelName: "University Academy Institute",
		Description: "full course series lesson 2 chapter 3 jee neet gate notes mcq",
	})

	assert.LessOrEqual(t, res.Score, 400)
	assert.GreaterOrEqual(t, res.Score, -400)
}

func TestScore_EmptyRecordIsZero(t *testing.T) {
	s := newScorer()
	res := s.Score(domain.Record{})
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Breakdown)
}
