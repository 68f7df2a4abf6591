package training

import "strings"

var (
	trainDepressionKeywords = []string{"sad", "hopeless", "empty", "pointless", "disconnected"}
	trainAnxietyKeywords    = []string{"anxious", "worried", "stressed", "overwhelmed"}
	trainPositiveKeywords   = []string{"great", "positive", "love", "beautiful", "grateful", "excited"}
)

// TextFeatureNames names the columns produced by TextFeatures
var TextFeatureNames = []string{"depression_keywords", "anxiety_keywords", "positive_keywords", "word_count"}

// TextFeatures extracts keyword counts and length from text
func TextFeatures(text string) []float64 {
	lower := strings.ToLower(text)
	count := func(words []string) float64 {
		n := 0.0
		for _, w := range words {
			if strings.Contains(lower, w) {
				n++
			}
		}
		return n
	}
	return []float64{
		count(trainDepressionKeywords),
		count(trainAnxietyKeywords),
		count(trainPositiveKeywords),
		float64(len(strings.Fields(text))),
	}
}

// BehavioralFeatureNames names the columns produced by BehavioralFeatures
var BehavioralFeatureNames = []string{"sleep_hours", "activity_level", "mood_rating", "stress_level"}

// BehavioralFeatures extracts the self-reported fields of a sample
func BehavioralFeatures(s Sample) []float64 {
	return []float64{s.SleepHours, s.ActivityLevel, s.MoodRating, s.StressLevel}
}
