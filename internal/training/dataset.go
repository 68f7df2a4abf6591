// Package training fits the small classifiers produced by cmd/train and
// loaded by the server's local model backend.
package training

// Sample is one row of the demonstration dataset
type Sample struct {
	Text           string
	Sentiment      int // 0 negative, 1 positive
	DepressionRisk int
	AnxietyRisk    int
	SleepHours     float64
	ActivityLevel  float64 // 1-5
	MoodRating     float64 // 1-5
	StressLevel    float64 // 1-5
}

// SampleData returns the built-in demonstration dataset. Replace with a real
// labelled dataset before drawing any conclusions from the trained models.
func SampleData() []Sample {
	return []Sample{
		{"I feel really sad and hopeless today", 0, 1, 0, 4, 2, 2, 4},
		{"Everything seems pointless and I can't find motivation", 0, 1, 0, 5, 1, 1, 5},
		{"I'm having a great day and feeling positive", 1, 0, 0, 8, 4, 5, 1},
		{"Feeling anxious about the upcoming presentation", 0, 0, 1, 6, 3, 3, 4},
		{"I love spending time with my friends", 1, 0, 0, 7, 5, 5, 1},
		{"I can't sleep and feel worried all the time", 0, 0, 1, 3, 2, 2, 5},
		{"Life is beautiful and I'm grateful", 1, 0, 0, 8, 5, 5, 1},
		{"I feel empty and disconnected from everyone", 0, 1, 0, 4, 1, 1, 4},
		{"Excited about my new job opportunity", 1, 0, 0, 7, 4, 4, 2},
		{"I'm constantly stressed and overwhelmed", 0, 0, 1, 5, 2, 2, 5},
	}
}

// Risk classes for the behavioral model
var RiskClasses = []string{"low", "moderate", "high"}

// RiskClass buckets the summed risk flags: 0 low, 1 moderate, 2+ high
func (s Sample) RiskClass() int {
	switch sum := s.DepressionRisk + s.AnxietyRisk; {
	case sum >= 2:
		return 2
	case sum == 1:
		return 1
	default:
		return 0
	}
}

// Mental-health classes for the text classifier
var MentalHealthClasses = []string{"normal", "depression_risk", "anxiety_risk"}

// MentalHealthClass labels a sample, depression taking precedence
func (s Sample) MentalHealthClass() int {
	switch {
	case s.DepressionRisk == 1:
		return 1
	case s.AnxietyRisk == 1:
		return 2
	default:
		return 0
	}
}
