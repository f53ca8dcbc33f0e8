// Package lexicon holds the versioned phrase tables and weights used by the
// scorer. Weight tuning is data on the asset, not code, so it can be tested
// in isolation from the classification pipeline.
package lexicon

import (
	"regexp"
	"strings"
)

// Version of the default lexicon asset. Bump when tables or weights change.
const Version = 3

// Weights are the tuned scoring constants. All deltas are additive except
// ImmediateReject, which short-circuits scoring entirely.
type Weights struct {
	TrustedChannel  int // first trusted channel pattern match
	KnownEduChannel int // known educational channel regex
	StrongIndicator int // per strong indicator match
	Subject         int // per academic subject match
	EduKeyword      int // per generic educational keyword match

	StrongIndicatorCap int
	SubjectCap         int
	EduKeywordCap      int

	StructuredSeries int // numbered parts/lessons/chapters
	CourseSeries     int // course/playlist/series language
	ExamRelated      int // exam preparation language

	Clickbait      int // per clickbait phrase in the title
	SoftNegative   int // per soft non-educational term
	ExcessPunct    int // repeated !/? in the title
	AllCaps        int // all-caps title longer than 10 chars
	HowToNoContext int // "how to" with no subject/strong/trusted signal

	ImmediateReject int
	ClampMin        int
	ClampMax        int
}

// DefaultWeights returns the tuned weights for the current lexicon version.
func DefaultWeights() Weights {
	return Weights{
		TrustedChannel:  60,
		KnownEduChannel: 40,
		StrongIndicator: 20,
		Subject:         15,
		EduKeyword:      8,

		StrongIndicatorCap: 2,
		SubjectCap:         2,
		EduKeywordCap:      2,

		StructuredSeries: 10,
		CourseSeries:     8,
		ExamRelated:      25,

		Clickbait:      -20,
		SoftNegative:   -25,
		ExcessPunct:    -8,
		AllCaps:        -12,
		HowToNoContext: -6,

		ImmediateReject: -300,
		ClampMin:        -400,
		ClampMax:        400,
	}
}

// Phrase is one lexicon entry with its precompiled word-boundary matcher.
type Phrase struct {
	Text string
	re   *regexp.Regexp
}

// MatchString reports whether the phrase occurs in text on word boundaries.
func (p Phrase) MatchString(text string) bool {
	return p.re.MatchString(text)
}

// PhraseSet is an ordered table of phrases matched on word boundaries,
// case-insensitively. Word-boundary matching avoids partial-word false
// positives such as "class" inside "classic".
type PhraseSet struct {
	phrases []Phrase
}

func compileSet(words []string) *PhraseSet {
	set := &PhraseSet{phrases: make([]Phrase, 0, len(words))}
	for _, w := range words {
		set.phrases = append(set.phrases, Phrase{
			Text: w,
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
		})
	}
	return set
}

// Len returns the number of phrases in the set.
func (s *PhraseSet) Len() int { return len(s.phrases) }

// Phrases returns the table entries in order.
func (s *PhraseSet) Phrases() []Phrase { return s.phrases }

// First returns the first phrase matching text, in table order.
func (s *PhraseSet) First(text string) (string, bool) {
	for _, p := range s.phrases {
		if p.MatchString(text) {
			return p.Text, true
		}
	}
	return "", false
}

// Matches returns every phrase matching text, in table order.
func (s *PhraseSet) Matches(text string) []string {
	var out []string
	for _, p := range s.phrases {
		if p.MatchString(text) {
			out = append(out, p.Text)
		}
	}
	return out
}

// Lexicon is one versioned asset bundling every table and pattern the
// scorer and engine consume.
type Lexicon struct {
	Version int
	Weights Weights

	StrongIndicators *PhraseSet // institutions, platforms, format phrases
	Subjects         *PhraseSet // academic subject terms
	EduKeywords      *PhraseSet // generic educational terms
	StrongNegative   *PhraseSet // immediate-reject terms
	SoftNegative     *PhraseSet // penalty-only non-educational terms
	Clickbait        *PhraseSet // title clickbait phrases
	TrustedChannels  *PhraseSet // channel-name patterns worth a large bonus

	KnownEduChannels *regexp.Regexp // well-known educational channel names
	EduContext       *regexp.Regexp // academic/technical context markers
	TutorialPhrase   *regexp.Regexp // tutorial-style phrasing
	StructuredSeries *regexp.Regexp
	CourseSeries     *regexp.Regexp
	ExamRelated      *regexp.Regexp
	ExcessPunct      *regexp.Regexp
	HowTo            *regexp.Regexp
}

// TrustedChannel reports whether the channel name matches a trusted pattern.
func (l *Lexicon) TrustedChannel(channel string) bool {
	_, ok := l.TrustedChannels.First(strings.ToLower(channel))
	return ok
}

// TutorialPhrasing reports whether text reads like a tutorial.
func (l *Lexicon) TutorialPhrasing(text string) bool {
	return l.TutorialPhrase.MatchString(text)
}

// Default returns the current lexicon asset with all matchers compiled.
func Default() *Lexicon {
	return &Lexicon{
		Version: Version,
		Weights: DefaultWeights(),

		StrongIndicators: compileSet(strongIndicators),
		Subjects:         compileSet(academicSubjects),
		EduKeywords:      compileSet(eduKeywords),
		StrongNegative:   compileSet(strongNonEduIndicators),
		SoftNegative:     compileSet(softNonEdu),
		Clickbait:        compileSet(clickbaitPhrases),
		TrustedChannels:  compileSet(eduChannelPatterns),

		KnownEduChannels: regexp.MustCompile(`(?i)physics\s*wallah|vedantu|unacademy|byjus|neetprep|examrace|gate\s*smashers|study\s*iq|adda247|tutorialspoint`),
		EduContext:       regexp.MustCompile(`(?i)lecture|course|tutorial|chapter|lesson|class|network|math|computer`),
		TutorialPhrase:   regexp.MustCompile(`(?i)how\s+to|tutorial|guide|install|setup|build|create|learn`),
		StructuredSeries: regexp.MustCompile(`(?i)part\s*\d+|lesson\s*\d+|episode\s*\d+|chapter\s*\d+|lecture\s*\d+`),
		CourseSeries:     regexp.MustCompile(`(?i)series|playlist|complete course|full course|tutorial series`),
		ExamRelated:      regexp.MustCompile(`(?i)\b(jee|neet|gate|ssc|upsc|board\s+exam|study|revision|notes|mcq|previous\s+year|exam\s+strategy)\b`),
		ExcessPunct:      regexp.MustCompile(`!!+|\?\?+`),
		HowTo:            regexp.MustCompile(`(?i)how to\b`),
	}
}
