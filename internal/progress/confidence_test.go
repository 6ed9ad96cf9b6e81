package progress

import (
	"math"
	"testing"

	"github.com/algocoach/backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestConfidenceScore(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		hints    int
		minutes  *int
		want     float64
	}{
		{"first try, no hints", 1, 0, nil, 1.0},
		{"second attempt", 2, 0, nil, 0.85},
		{"one hint", 1, 1, nil, 0.8},
		{"two attempts and a hint", 2, 1, nil, 0.65},
		{"45 minutes is not over the threshold", 1, 0, intPtr(45), 1.0},
		{"46 minutes", 1, 0, intPtr(46), 0.9},
		{"90 minutes takes only the first penalty", 1, 0, intPtr(90), 0.9},
		{"91 minutes takes both penalties", 1, 0, intPtr(91), 0.7},
		{"everything wrong clamps to zero", 5, 3, intPtr(120), 0.0},
	}

	for _, tt := range tests {
		rec := &models.ProgressRecord{
			AttemptsCount:    tt.attempts,
			HintsUsed:        tt.hints,
			TimeSpentMinutes: tt.minutes,
		}
		got := ConfidenceScore(rec)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: ConfidenceScore = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestClampConfidence(t *testing.T) {
	if got := ClampConfidence(-0.5); got != 0 {
		t.Errorf("ClampConfidence(-0.5) = %f, want 0", got)
	}
	if got := ClampConfidence(1.5); got != 1 {
		t.Errorf("ClampConfidence(1.5) = %f, want 1", got)
	}
	if got := ClampConfidence(0.42); got != 0.42 {
		t.Errorf("ClampConfidence(0.42) = %f, want 0.42", got)
	}
}
