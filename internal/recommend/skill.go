package recommend

import "github.com/algocoach/backend/internal/models"

// tierStats holds per-difficulty solve counts and average confidence.
type tierStats struct {
	count      map[models.Difficulty]int
	confidence map[models.Difficulty]float64
}

func aggregateByDifficulty(solved []models.ProgressRecord) tierStats {
	count := make(map[models.Difficulty]int)
	sum := make(map[models.Difficulty]float64)
	for _, rec := range solved {
		d := rec.Problem.Difficulty
		count[d]++
		sum[d] += rec.ConfidenceScore
	}
	avg := make(map[models.Difficulty]float64)
	for d, n := range count {
		avg[d] = sum[d] / float64(n)
	}
	return tierStats{count: count, confidence: avg}
}

// RecommendedDifficulty derives the tier a user should practice at from their
// solved history. First matching rule wins: users without depth at a tier are
// held there until both volume and confidence clear the bar.
func RecommendedDifficulty(solved []models.ProgressRecord) models.Difficulty {
	if len(solved) == 0 {
		return models.DifficultyEasy
	}

	st := aggregateByDifficulty(solved)

	switch {
	case st.count[models.DifficultyEasy] < 3 || st.confidence[models.DifficultyEasy] < 0.6:
		return models.DifficultyEasy
	case st.count[models.DifficultyMedium] < 2 || st.confidence[models.DifficultyMedium] < 0.5:
		return models.DifficultyMedium
	case st.count[models.DifficultyHard] < 1 || st.confidence[models.DifficultyHard] < 0.4:
		return models.DifficultyHard
	}

	// Advanced user with depth at all tiers.
	if st.confidence[models.DifficultyMedium] > 0.7 {
		return models.DifficultyHard
	}
	return models.DifficultyMedium
}

// ProgressionDifficulty is the stricter variant used by the difficulty-fit
// signal of the scored recommendation path. Thresholds are tuned separately
// from RecommendedDifficulty and the two must not be unified without product
// sign-off.
func ProgressionDifficulty(solved []models.ProgressRecord) models.Difficulty {
	if len(solved) == 0 {
		return models.DifficultyEasy
	}

	st := aggregateByDifficulty(solved)

	switch {
	case st.count[models.DifficultyEasy] < 5 || st.confidence[models.DifficultyEasy] < 0.7:
		return models.DifficultyEasy
	case st.count[models.DifficultyMedium] < 3 || st.confidence[models.DifficultyMedium] < 0.65:
		return models.DifficultyMedium
	case st.count[models.DifficultyHard] < 2 || st.confidence[models.DifficultyHard] < 0.6:
		return models.DifficultyHard
	}

	if st.confidence[models.DifficultyMedium] > 0.75 {
		return models.DifficultyHard
	}
	return models.DifficultyMedium
}
