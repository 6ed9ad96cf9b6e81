package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/algocoach/backend/internal/models"
)

// Signal weights for the scored recommendation path. The total is a weighted
// sum and is not clamped: a candidate can score slightly above 1.0.
const (
	spacedRepetitionWeight = 0.5
	topicWeight            = 0.4
	difficultyWeight       = 0.3
)

// SpacedRepetitionScore rates a previously solved problem for review. Ramps
// linearly from 0 at 7 days since solve to 1 at 30 days, then drops to a flat
// 0.5. Problems never solved, or solved less than 7 days ago, score 0.
func SpacedRepetitionScore(problem models.Problem, solved []models.ProgressRecord, now time.Time) float64 {
	for _, rec := range solved {
		if rec.ProblemID != problem.ID || rec.SolvedAt == nil {
			continue
		}
		days := int(now.Sub(*rec.SolvedAt).Hours() / 24)
		if days >= 7 && days <= 30 {
			return math.Min(1.0, float64(days-7)/23.0)
		}
		if days > 30 {
			return 0.5
		}
		return 0.0
	}
	return 0.0
}

// TopicScore rates an unsolved problem by how weak the user is in its topic.
// New topics get top priority, then thin coverage, then low confidence.
func TopicScore(problem models.Problem, solved []models.ProgressRecord) float64 {
	solvedInTopic := 0
	confidenceSum := 0.0
	for _, rec := range solved {
		if rec.Problem.Topic == problem.Topic {
			solvedInTopic++
			confidenceSum += rec.ConfidenceScore
		}
	}

	switch {
	case solvedInTopic == 0:
		return 1.0
	case solvedInTopic < 3:
		return 0.8
	case confidenceSum/float64(solvedInTopic) < 0.6:
		return 0.6
	}
	return 0.0
}

// DifficultyFitScore rates how close a problem's tier sits to the strict
// progression recommendation. Two tiers away scores 0.2 in either direction.
func DifficultyFitScore(problem models.Problem, solved []models.ProgressRecord) float64 {
	recommended := ProgressionDifficulty(solved)
	gap := problem.Difficulty.Rank() - recommended.Rank()
	if gap < 0 {
		gap = -gap
	}
	switch gap {
	case 0:
		return 1.0
	case 1:
		return 0.6
	}
	return 0.2
}

// ScoreCandidates runs the scored recommendation pass over every candidate
// problem. In-progress problems are skipped entirely. Previously solved
// problems are scored on the spaced-repetition signal alone; unsolved ones on
// topic weakness and difficulty fit. Zero-score candidates are dropped and the
// rest are returned sorted by score descending (stable on ties) and truncated
// to limit.
func ScoreCandidates(solved []models.ProgressRecord, inProgressIDs map[int64]bool, problems []models.Problem, limit int, now time.Time) []models.RecommendationResult {
	solvedIDs := make(map[int64]bool, len(solved))
	for _, rec := range solved {
		solvedIDs[rec.ProblemID] = true
	}

	var candidates []models.RecommendationResult
	for _, problem := range problems {
		if inProgressIDs[problem.ID] {
			continue
		}

		score := 0.0
		var reason strings.Builder

		spaced := SpacedRepetitionScore(problem, solved, now)
		if spaced > 0 {
			score += spaced * spacedRepetitionWeight
			reason.WriteString("Time to review this problem. ")
		} else if !solvedIDs[problem.ID] {
			topic := TopicScore(problem, solved)
			if topic > 0.3 {
				score += topic * topicWeight
				reason.WriteString("Focus area: " + problem.Topic + ". ")
			}

			fit := DifficultyFitScore(problem, solved)
			score += fit * difficultyWeight
			if fit > 0.5 {
				reason.WriteString("Matches your current skill level. ")
			}
		}

		if score > 0 {
			candidates = append(candidates, models.RecommendationResult{
				Problem: problem,
				Reason:  strings.TrimSpace(reason.String()),
				Score:   score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
