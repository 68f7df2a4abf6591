package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// CleanText renders markdown to plain text and drops links and URLs
func CleanText(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // Keep only the text
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := htmlTagPattern.ReplaceAllString(string(output), " ")
	plain = urlPattern.ReplaceAllString(plain, "")
	return strings.Join(strings.Fields(plain), " ")
}

// Lexicon scores text polarity with the VADER lexicon
type Lexicon struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexicon loads the VADER lexicon
func NewLexicon() *Lexicon {
	return &Lexicon{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the compound score of the cleaned text in [-1, 1]
func (l *Lexicon) Polarity(text string) float64 {
	plain := CleanText(text)
	if plain == "" {
		return 0
	}
	score := l.analyzer.PolarityScores(plain).Compound
	if math.IsNaN(score) {
		return 0
	}
	return clamp(score, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
