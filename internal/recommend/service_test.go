package recommend

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/algocoach/backend/internal/models"
)

type fakeCatalog struct {
	problems     []models.Problem
	findAllCalls int
}

func (f *fakeCatalog) FindAll() ([]models.Problem, error) {
	f.findAllCalls++
	return f.problems, nil
}

func (f *fakeCatalog) FindByDifficulty(difficulty models.Difficulty) ([]models.Problem, error) {
	var out []models.Problem
	for _, p := range f.problems {
		if p.Difficulty == difficulty {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindByTopic(topic string) ([]models.Problem, error) {
	var out []models.Problem
	for _, p := range f.problems {
		if p.Topic == topic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) TotalCount() (int64, error) {
	return int64(len(f.problems)), nil
}

type fakeProgress struct {
	solved     []models.ProgressRecord
	inProgress []models.ProgressRecord
}

func (f *fakeProgress) FindSolved(userID int64) ([]models.ProgressRecord, error) {
	return f.solved, nil
}

func (f *fakeProgress) FindByStatus(userID int64, status models.ProgressStatus) ([]models.ProgressRecord, error) {
	if status == models.StatusInProgress {
		return f.inProgress, nil
	}
	if status == models.StatusSolved {
		return f.solved, nil
	}
	return nil, nil
}

func (f *fakeProgress) CountByStatus(userID int64, status models.ProgressStatus) (int64, error) {
	recs, err := f.FindByStatus(userID, status)
	return int64(len(recs)), err
}

func (f *fakeProgress) CountSolvedByDifficulty(userID int64) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, rec := range f.solved {
		counts[string(rec.Problem.Difficulty)]++
	}
	return counts, nil
}

func (f *fakeProgress) CountSolvedByTopic(userID int64) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, rec := range f.solved {
		counts[rec.Problem.Topic]++
	}
	return counts, nil
}

func testProblems() []models.Problem {
	return []models.Problem{
		{ID: 1, Title: "Two Sum", Difficulty: models.DifficultyEasy, Topic: "Array", AcceptanceRate: 45.8},
		{ID: 2, Title: "Valid Parentheses", Difficulty: models.DifficultyEasy, Topic: "Stack", AcceptanceRate: 38.4},
		{ID: 3, Title: "Add Two Numbers", Difficulty: models.DifficultyMedium, Topic: "Linked List", AcceptanceRate: 36.8},
		{ID: 4, Title: "Median of Two Sorted Arrays", Difficulty: models.DifficultyHard, Topic: "Binary Search", AcceptanceRate: 35.2},
	}
}

func solvedRecord(p models.Problem, confidence float64) models.ProgressRecord {
	solvedAt := time.Now().Add(-24 * time.Hour)
	return models.ProgressRecord{
		ProblemID:       p.ID,
		Status:          models.StatusSolved,
		SolvedAt:        &solvedAt,
		ConfidenceScore: confidence,
		Problem:         p,
	}
}

func TestGetRecommendedProblemsBackfillsAndSorts(t *testing.T) {
	catalog := &fakeCatalog{problems: testProblems()}
	service := NewService(catalog, &fakeProgress{}, NewCache(DefaultCacheTTL))

	// Fresh user: recommended tier is EASY (2 problems), backfill pulls from
	// MEDIUM then HARD until the limit is met.
	got, err := service.GetRecommendedProblems(1, 3)
	if err != nil {
		t.Fatalf("GetRecommendedProblems: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d problems, want 3", len(got))
	}

	// Sorted by acceptance rate descending across tiers.
	wantOrder := []int64{1, 2, 3}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = problem %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestGetRecommendedProblemsExcludesSeen(t *testing.T) {
	problems := testProblems()
	catalog := &fakeCatalog{problems: problems}
	progress := &fakeProgress{
		solved:     []models.ProgressRecord{solvedRecord(problems[0], 0.9)},
		inProgress: []models.ProgressRecord{{ProblemID: 2, Status: models.StatusInProgress, Problem: problems[1]}},
	}
	service := NewService(catalog, progress, NewCache(DefaultCacheTTL))

	got, err := service.GetRecommendedProblems(1, 5)
	if err != nil {
		t.Fatalf("GetRecommendedProblems: %v", err)
	}
	for _, p := range got {
		if p.ID == 1 || p.ID == 2 {
			t.Errorf("problem %d should have been excluded", p.ID)
		}
	}
}

func TestGetProblemsByTopicSkipsSolved(t *testing.T) {
	problems := []models.Problem{
		{ID: 1, Topic: "Array", Difficulty: models.DifficultyEasy},
		{ID: 2, Topic: "Array", Difficulty: models.DifficultyMedium},
	}
	catalog := &fakeCatalog{problems: problems}
	progress := &fakeProgress{solved: []models.ProgressRecord{solvedRecord(problems[0], 0.8)}}
	service := NewService(catalog, progress, NewCache(DefaultCacheTTL))

	got, err := service.GetProblemsByTopic(1, "Array", 5)
	if err != nil {
		t.Fatalf("GetProblemsByTopic: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("got %v, want only problem 2", got)
	}
}

func TestGetRandomProblemsRejectsBadDifficulty(t *testing.T) {
	service := NewService(&fakeCatalog{}, &fakeProgress{}, NewCache(DefaultCacheTTL))

	_, err := service.GetRandomProblems(1, models.Difficulty("BRUTAL"), 5)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestEnhancedRecommendationsAreCached(t *testing.T) {
	catalog := &fakeCatalog{problems: testProblems()}
	service := NewService(catalog, &fakeProgress{}, NewCache(DefaultCacheTTL))

	if _, err := service.GetEnhancedRecommendations(1, 5); err != nil {
		t.Fatalf("GetEnhancedRecommendations: %v", err)
	}
	if _, err := service.GetEnhancedRecommendations(1, 5); err != nil {
		t.Fatalf("GetEnhancedRecommendations: %v", err)
	}
	if catalog.findAllCalls != 1 {
		t.Errorf("catalog scanned %d times, want 1 (second call should hit the cache)", catalog.findAllCalls)
	}

	service.InvalidateCache(1)
	if _, err := service.GetEnhancedRecommendations(1, 5); err != nil {
		t.Fatalf("GetEnhancedRecommendations: %v", err)
	}
	if catalog.findAllCalls != 2 {
		t.Errorf("catalog scanned %d times, want 2 after invalidation", catalog.findAllCalls)
	}
}

func TestEnhancedRecommendationsCacheIsPerUser(t *testing.T) {
	catalog := &fakeCatalog{problems: testProblems()}
	service := NewService(catalog, &fakeProgress{}, NewCache(DefaultCacheTTL))

	if _, err := service.GetEnhancedRecommendations(1, 5); err != nil {
		t.Fatalf("GetEnhancedRecommendations: %v", err)
	}
	if _, err := service.GetEnhancedRecommendations(2, 5); err != nil {
		t.Fatalf("GetEnhancedRecommendations: %v", err)
	}
	if catalog.findAllCalls != 2 {
		t.Errorf("catalog scanned %d times, want 2 (one per user)", catalog.findAllCalls)
	}
}

func TestGetProgressStats(t *testing.T) {
	problems := testProblems()
	catalog := &fakeCatalog{problems: problems}
	progress := &fakeProgress{
		solved: []models.ProgressRecord{
			solvedRecord(problems[0], 0.9),
			solvedRecord(problems[1], 0.8),
			solvedRecord(problems[2], 0.65),
		},
		inProgress: []models.ProgressRecord{{ProblemID: 4, Status: models.StatusInProgress, Problem: problems[3]}},
	}
	service := NewService(catalog, progress, NewCache(DefaultCacheTTL))

	stats, err := service.GetProgressStats(1)
	if err != nil {
		t.Fatalf("GetProgressStats: %v", err)
	}

	if stats.TotalSolved != 3 {
		t.Errorf("TotalSolved = %d, want 3", stats.TotalSolved)
	}
	if stats.InProgress != 1 {
		t.Errorf("InProgress = %d, want 1", stats.InProgress)
	}
	if stats.TotalProblems != 4 {
		t.Errorf("TotalProblems = %d, want 4", stats.TotalProblems)
	}
	if stats.CompletionRate != 75.0 {
		t.Errorf("CompletionRate = %f, want 75.0", stats.CompletionRate)
	}
	// (0.9 + 0.8 + 0.65) / 3 = 0.7833..., rounded to two decimals
	if math.Abs(stats.AverageConfidence-0.78) > 1e-9 {
		t.Errorf("AverageConfidence = %f, want 0.78", stats.AverageConfidence)
	}
	if got := stats.ConfidenceByDifficulty["EASY"]; math.Abs(got-0.85) > 1e-9 {
		t.Errorf("ConfidenceByDifficulty[EASY] = %f, want 0.85", got)
	}
	if got := stats.ConfidenceByDifficulty["MEDIUM"]; math.Abs(got-0.65) > 1e-9 {
		t.Errorf("ConfidenceByDifficulty[MEDIUM] = %f, want 0.65", got)
	}
	if stats.SolvedByDifficulty["EASY"] != 2 {
		t.Errorf("SolvedByDifficulty[EASY] = %d, want 2", stats.SolvedByDifficulty["EASY"])
	}
}
