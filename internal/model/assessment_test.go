package model

import "testing"

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{59.9, RiskLow},
		{60.0, RiskModerate},
		{79.9, RiskModerate},
		{80.0, RiskHigh},
		{100, RiskHigh},
	}
	for _, c := range cases {
		if got := LevelForScore(c.score); got != c.want {
			t.Fatalf("LevelForScore(%v)=%s, want %s", c.score, got, c.want)
		}
	}
}

func TestBehavioralDataRequestValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	ok := []BehavioralDataRequest{
		{UserID: "u"},
		{UserID: "u", SleepHours: f(0), ActivityLevel: i(1), MoodRating: i(5), StressLevel: i(3)},
		{UserID: "u", SleepHours: f(24)},
	}
	for _, r := range ok {
		if err := r.Validate(); err != nil {
			t.Fatalf("Validate(%+v): %v", r, err)
		}
	}

	bad := []BehavioralDataRequest{
		{UserID: "  "},
		{UserID: "u", SleepHours: f(24.5)},
		{UserID: "u", ActivityLevel: i(0)},
		{UserID: "u", MoodRating: i(6)},
		{UserID: "u", StressLevel: i(-1)},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for %+v", r)
		}
	}
}

func TestCombinedText(t *testing.T) {
	r := BehavioralDataRequest{SocialMediaPosts: []string{"first", "  ", "", "second"}}
	if got := r.CombinedText(); got != "first second" {
		t.Fatalf("CombinedText=%q", got)
	}
	if got := (&BehavioralDataRequest{}).CombinedText(); got != "" {
		t.Fatalf("CombinedText of no posts=%q", got)
	}
}

func TestResponseNeverNil(t *testing.T) {
	resp := (&RiskAssessment{ID: "a1", RiskScore: 50, RiskLevel: RiskLow}).Response()
	if resp.Factors == nil || resp.Recommendations == nil || resp.AssessmentID != "a1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestValidateReportsFirstInvalidField(t *testing.T) {
	zero, six := 0, 6
	r := BehavioralDataRequest{UserID: "u", ActivityLevel: &six, MoodRating: &zero, StressLevel: &six}
	for i := 0; i < 20; i++ {
		err := r.Validate()
		if err == nil || err.Error() != "activity_level must be between 1 and 5" {
			t.Fatalf("run %d: got %v", i, err)
		}
	}
}
