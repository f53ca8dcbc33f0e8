// Package score computes the lexical desirability score for a record.
// Scoring is pure and deterministic: same record and lexicon, same score.
package score

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
)

// Result is the outcome of scoring one record.
type Result struct {
	Score           int
	ImmediateReject bool
	Breakdown       []domain.ScoreDelta

	// Pool hit counts the engine's cross-checks consume.
	StrongMatches  int
	SubjectMatches int
	TrustedChannel bool
}

// Scorer scores records against one lexicon asset.
type Scorer struct {
	lex *lexicon.Lexicon
}

// New creates a scorer for the given lexicon.
func New(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score computes the integer score and its breakdown.
//
// The immediate-reject scan runs first and takes absolute precedence: a
// strong-negative hit with no educational context marker anywhere in the
// text returns the reject score without evaluating any positive pool.
// Remaining pools are additive, each capped so no single pool dominates,
// and the final sum is clamped to [ClampMin, ClampMax].
func (s *Scorer) Score(rec domain.Record) Result {
	w := s.lex.Weights

	title := strings.ToLower(strings.TrimSpace(rec.Title))
	desc := strings.ToLower(strings.TrimSpace(rec.Description))
	channel := strings.ToLower(strings.TrimSpace(rec.ChannelName))
	text := title + " " + desc + " " + channel

	res := Result{}

	// Immediate rejects, context-aware. Ambiguous negative terms (generic
	// comparison words and the like) share the same escape hatch: any
	// educational context marker in the text suppresses the reject.
	if !s.lex.EduContext.MatchString(text) {
		if hit, ok := s.lex.StrongNegative.First(text); ok {
			res.Score = w.ImmediateReject
			res.ImmediateReject = true
			res.Breakdown = append(res.Breakdown, domain.ScoreDelta{
				Reason: "immediate-reject:" + hit,
				Delta:  w.ImmediateReject,
			})
			return res
		}
	}

	score := 0
	add := func(reason string, delta int) {
		score += delta
		res.Breakdown = append(res.Breakdown, domain.ScoreDelta{Reason: reason, Delta: delta})
	}

	if s.lex.KnownEduChannels.MatchString(channel) {
		add("known-edu-channel", w.KnownEduChannel)
	}

	if p, ok := s.lex.TrustedChannels.First(channel); ok {
		res.TrustedChannel = true
		add("trusted-channel:"+p, w.TrustedChannel)
	}

	for _, hit := range s.lex.StrongIndicators.Matches(text) {
		res.StrongMatches++
		if res.StrongMatches <= w.StrongIndicatorCap {
			add("strong:"+hit, w.StrongIndicator)
		}
	}

	for _, hit := range s.lex.Subjects.Matches(text) {
		res.SubjectMatches++
		if res.SubjectMatches <= w.SubjectCap {
			add("subject:"+hit, w.Subject)
		}
	}

	eduKwMatches := 0
	for _, hit := range s.lex.EduKeywords.Matches(text) {
		eduKwMatches++
		if eduKwMatches <= w.EduKeywordCap {
			add("edu-keyword:"+hit, w.EduKeyword)
		}
	}

	if s.lex.StructuredSeries.MatchString(text) {
		add("structured-series", w.StructuredSeries)
	}
	if s.lex.CourseSeries.MatchString(text) {
		add("course-series", w.CourseSeries)
	}
	if s.lex.ExamRelated.MatchString(title + " " + desc) {
		add("exam-related", w.ExamRelated)
	}

	for _, hit := range s.lex.Clickbait.Matches(title) {
		add("clickbait:"+hit, w.Clickbait)
	}
	for _, hit := range s.lex.SoftNegative.Matches(text) {
		add("soft-non-edu:"+hit, w.SoftNegative)
	}

	if s.lex.ExcessPunct.MatchString(title) {
		add("excess-punctuation", w.ExcessPunct)
	}
	if isAllCaps(rec.Title) && len(rec.Title) > 10 {
		add("all-caps-title", w.AllCaps)
	}

	if s.lex.HowTo.MatchString(text) &&
		res.StrongMatches == 0 && res.SubjectMatches == 0 && !res.TrustedChannel {
		add("how-to-no-context", w.HowToNoContext)
	}

	if score > w.ClampMax {
		add(fmt.Sprintf("clamp:%d", w.ClampMax), w.ClampMax-score)
	} else if score < w.ClampMin {
		add(fmt.Sprintf("clamp:%d", w.ClampMin), w.ClampMin-score)
	}

	res.Score = score
	return res
}

// isAllCaps reports whether s contains at least one letter and no lowercase
// letters.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
