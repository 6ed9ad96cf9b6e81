package progress

import "github.com/algocoach/backend/internal/models"

// ConfidenceScore estimates how comfortably a user solved a problem from the
// counters on their progress record. Starts at perfect confidence and deducts
// for extra attempts, hints, and long solve times; both time thresholds can
// apply cumulatively. The result is clamped to [0,1]. Pure function — the
// caller persists the value onto the record.
func ConfidenceScore(rec *models.ProgressRecord) float64 {
	score := 1.0

	score -= float64(rec.AttemptsCount-1) * 0.15
	score -= float64(rec.HintsUsed) * 0.2

	if rec.TimeSpentMinutes != nil {
		if *rec.TimeSpentMinutes > 45 {
			score -= 0.1
		}
		if *rec.TimeSpentMinutes > 90 {
			score -= 0.2
		}
	}

	return ClampConfidence(score)
}

// ClampConfidence bounds an externally supplied confidence value to [0,1].
// Used when the caller provides an explicit score instead of the estimate.
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
