package recommend

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/algocoach/backend/internal/models"
)

// Catalog is the problem-catalog collaborator. Problems are immutable for the
// duration of a request.
type Catalog interface {
	FindAll() ([]models.Problem, error)
	FindByDifficulty(difficulty models.Difficulty) ([]models.Problem, error)
	FindByTopic(topic string) ([]models.Problem, error)
	TotalCount() (int64, error)
}

// ProgressStore is the per-(user, problem) progress collaborator. FindSolved
// returns records ordered by solved-at descending, with the problem joined in.
type ProgressStore interface {
	FindSolved(userID int64) ([]models.ProgressRecord, error)
	FindByStatus(userID int64, status models.ProgressStatus) ([]models.ProgressRecord, error)
	CountByStatus(userID int64, status models.ProgressStatus) (int64, error)
	CountSolvedByDifficulty(userID int64) (map[string]int64, error)
	CountSolvedByTopic(userID int64) (map[string]int64, error)
}

// Service computes problem recommendations and progress statistics. The scored
// path caches its result per user; every progress mutation must invalidate
// that entry (the Tracker does this via InvalidateCache).
type Service struct {
	catalog  Catalog
	progress ProgressStore
	cache    *Cache
	now      func() time.Time
}

func NewService(catalog Catalog, progress ProgressStore, cache *Cache) *Service {
	return &Service{
		catalog:  catalog,
		progress: progress,
		cache:    cache,
		now:      time.Now,
	}
}

// ── Simple Recommendation Path ──────────────────────────

// GetRecommendedProblems serves the dashboard path: unseen problems at the
// coarse recommended tier, backfilled from the other tiers in EASY, MEDIUM,
// HARD order, sorted by acceptance rate descending. Cheaper than the scored
// path and deliberately kept separate from it.
func (s *Service) GetRecommendedProblems(userID int64, limit int) ([]models.Problem, error) {
	solved, err := s.progress.FindSolved(userID)
	if err != nil {
		return nil, fmt.Errorf("find solved: %w", err)
	}
	inProgress, err := s.progress.FindByStatus(userID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("find in-progress: %w", err)
	}

	seen := make(map[int64]bool, len(solved)+len(inProgress))
	for _, rec := range solved {
		seen[rec.ProblemID] = true
	}
	for _, rec := range inProgress {
		seen[rec.ProblemID] = true
	}

	recommended := RecommendedDifficulty(solved)

	candidates, err := s.unseenByDifficulty(recommended, seen)
	if err != nil {
		return nil, err
	}

	// Backfill from the other tiers if the recommended one runs short.
	if len(candidates) < limit {
		for _, d := range models.AllDifficulties {
			if d == recommended {
				continue
			}
			more, err := s.unseenByDifficulty(d, seen)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, more...)
			if len(candidates) >= limit {
				break
			}
		}
	}

	// Higher acceptance rate first: easier wins to build momentum.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AcceptanceRate > candidates[j].AcceptanceRate
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *Service) unseenByDifficulty(difficulty models.Difficulty, seen map[int64]bool) ([]models.Problem, error) {
	problems, err := s.catalog.FindByDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("find by difficulty: %w", err)
	}
	var unseen []models.Problem
	for _, p := range problems {
		if !seen[p.ID] {
			unseen = append(unseen, p)
		}
	}
	return unseen, nil
}

// GetProblemsByTopic returns up to limit problems in a topic the user has not
// solved yet. Topic matching is case-insensitive.
func (s *Service) GetProblemsByTopic(userID int64, topic string, limit int) ([]models.Problem, error) {
	solved, err := s.progress.FindSolved(userID)
	if err != nil {
		return nil, fmt.Errorf("find solved: %w", err)
	}
	solvedIDs := make(map[int64]bool, len(solved))
	for _, rec := range solved {
		solvedIDs[rec.ProblemID] = true
	}

	problems, err := s.catalog.FindByTopic(topic)
	if err != nil {
		return nil, fmt.Errorf("find by topic: %w", err)
	}

	var result []models.Problem
	for _, p := range problems {
		if solvedIDs[p.ID] {
			continue
		}
		result = append(result, p)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// GetRandomProblems returns up to limit unsolved problems of a difficulty in
// random order.
func (s *Service) GetRandomProblems(userID int64, difficulty models.Difficulty, limit int) ([]models.Problem, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: difficulty %q", models.ErrInvalidArgument, difficulty)
	}

	solved, err := s.progress.FindSolved(userID)
	if err != nil {
		return nil, fmt.Errorf("find solved: %w", err)
	}
	solvedIDs := make(map[int64]bool, len(solved))
	for _, rec := range solved {
		solvedIDs[rec.ProblemID] = true
	}

	problems, err := s.catalog.FindByDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("find by difficulty: %w", err)
	}

	var available []models.Problem
	for _, p := range problems {
		if !solvedIDs[p.ID] {
			available = append(available, p)
		}
	}

	rand.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if len(available) > limit {
		available = available[:limit]
	}
	return available, nil
}

// ── Scored Recommendation Path ──────────────────────────

// GetEnhancedRecommendations serves the scored path with per-user caching. A
// cache hit within the TTL returns the stored list; otherwise the full scoring
// pass runs and its result is cached. Two requests racing on a miss may both
// recompute — acceptable, no locking across the computation.
func (s *Service) GetEnhancedRecommendations(userID int64, limit int) ([]models.RecommendationResult, error) {
	if cached, ok := s.cache.Get(userID); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	solved, err := s.progress.FindSolved(userID)
	if err != nil {
		return nil, fmt.Errorf("find solved: %w", err)
	}
	inProgress, err := s.progress.FindByStatus(userID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("find in-progress: %w", err)
	}
	inProgressIDs := make(map[int64]bool, len(inProgress))
	for _, rec := range inProgress {
		inProgressIDs[rec.ProblemID] = true
	}

	problems, err := s.catalog.FindAll()
	if err != nil {
		return nil, fmt.Errorf("find all problems: %w", err)
	}

	recommendations := ScoreCandidates(solved, inProgressIDs, problems, limit, s.now())

	s.cache.Put(userID, recommendations)
	return recommendations, nil
}

// InvalidateCache drops the user's cached recommendations. Exposed for callers
// that mutate progress without going through the Tracker; double invalidation
// is harmless.
func (s *Service) InvalidateCache(userID int64) {
	s.cache.Invalidate(userID)
}

// ── Progress Statistics ─────────────────────────────────

func (s *Service) GetProgressStats(userID int64) (*models.ProgressStats, error) {
	totalSolved, err := s.progress.CountByStatus(userID, models.StatusSolved)
	if err != nil {
		return nil, fmt.Errorf("count solved: %w", err)
	}
	inProgress, err := s.progress.CountByStatus(userID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("count in-progress: %w", err)
	}
	totalProblems, err := s.catalog.TotalCount()
	if err != nil {
		return nil, fmt.Errorf("total problems: %w", err)
	}

	completionRate := 0.0
	if totalProblems > 0 {
		completionRate = float64(totalSolved) / float64(totalProblems) * 100
	}

	solvedByDifficulty, err := s.progress.CountSolvedByDifficulty(userID)
	if err != nil {
		return nil, fmt.Errorf("solved by difficulty: %w", err)
	}
	solvedByTopic, err := s.progress.CountSolvedByTopic(userID)
	if err != nil {
		return nil, fmt.Errorf("solved by topic: %w", err)
	}

	solved, err := s.progress.FindSolved(userID)
	if err != nil {
		return nil, fmt.Errorf("find solved: %w", err)
	}

	avgConfidence := 0.0
	if len(solved) > 0 {
		sum := 0.0
		for _, rec := range solved {
			sum += rec.ConfidenceScore
		}
		avgConfidence = round2(sum / float64(len(solved)))
	}

	confidenceByDifficulty := make(map[string]float64)
	byDifficulty := make(map[string][]float64)
	for _, rec := range solved {
		d := string(rec.Problem.Difficulty)
		byDifficulty[d] = append(byDifficulty[d], rec.ConfidenceScore)
	}
	for d, scores := range byDifficulty {
		sum := 0.0
		for _, score := range scores {
			sum += score
		}
		confidenceByDifficulty[d] = round2(sum / float64(len(scores)))
	}

	return &models.ProgressStats{
		TotalSolved:            totalSolved,
		InProgress:             inProgress,
		TotalProblems:          totalProblems,
		CompletionRate:         completionRate,
		SolvedByDifficulty:     solvedByDifficulty,
		SolvedByTopic:          solvedByTopic,
		AverageConfidence:      avgConfidence,
		ConfidenceByDifficulty: confidenceByDifficulty,
	}, nil
}

// SolvedProblems returns the user's solved records, most recent solve first.
func (s *Service) SolvedProblems(userID int64) ([]models.ProgressRecord, error) {
	return s.progress.FindSolved(userID)
}

// InProgressProblems returns the user's currently in-progress records.
func (s *Service) InProgressProblems(userID int64) ([]models.ProgressRecord, error) {
	return s.progress.FindByStatus(userID, models.StatusInProgress)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
