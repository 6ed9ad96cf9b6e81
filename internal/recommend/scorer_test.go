package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/algocoach/backend/internal/models"
)

var scorerNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func solvedDaysAgo(problem models.Problem, days int, confidence float64) models.ProgressRecord {
	solvedAt := scorerNow.Add(-time.Duration(days) * 24 * time.Hour)
	return models.ProgressRecord{
		ProblemID:       problem.ID,
		Status:          models.StatusSolved,
		SolvedAt:        &solvedAt,
		ConfidenceScore: confidence,
		Problem:         problem,
	}
}

func TestSpacedRepetitionScore(t *testing.T) {
	problem := models.Problem{ID: 1, Topic: "Array", Difficulty: models.DifficultyEasy}

	tests := []struct {
		name string
		days int
		want float64
	}{
		{"too recent", 3, 0.0},
		{"window opens at zero", 7, 0.0},
		{"mid window", 18, 11.0 / 23.0},
		{"window peak", 30, 1.0},
		{"past the window", 45, 0.5},
	}

	for _, tt := range tests {
		solved := []models.ProgressRecord{solvedDaysAgo(problem, tt.days, 0.8)}
		got := SpacedRepetitionScore(problem, solved, scorerNow)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: SpacedRepetitionScore = %f, want %f", tt.name, got, tt.want)
		}
	}

	// Never solved
	other := models.Problem{ID: 2}
	if got := SpacedRepetitionScore(other, []models.ProgressRecord{solvedDaysAgo(problem, 20, 0.8)}, scorerNow); got != 0 {
		t.Errorf("unsolved problem scored %f, want 0", got)
	}
}

func TestTopicScore(t *testing.T) {
	arrays := models.Problem{ID: 10, Topic: "Array", Difficulty: models.DifficultyEasy}
	graphs := models.Problem{ID: 11, Topic: "Graph", Difficulty: models.DifficultyMedium}

	twoArraySolves := []models.ProgressRecord{
		solvedDaysAgo(models.Problem{ID: 1, Topic: "Array"}, 2, 0.9),
		solvedDaysAgo(models.Problem{ID: 2, Topic: "Array"}, 3, 0.9),
	}
	threeWeakArraySolves := []models.ProgressRecord{
		solvedDaysAgo(models.Problem{ID: 1, Topic: "Array"}, 2, 0.7),
		solvedDaysAgo(models.Problem{ID: 2, Topic: "Array"}, 3, 0.7),
		solvedDaysAgo(models.Problem{ID: 3, Topic: "Array"}, 4, 0.2),
	}
	threeStrongArraySolves := []models.ProgressRecord{
		solvedDaysAgo(models.Problem{ID: 1, Topic: "Array"}, 2, 0.8),
		solvedDaysAgo(models.Problem{ID: 2, Topic: "Array"}, 3, 0.8),
		solvedDaysAgo(models.Problem{ID: 3, Topic: "Array"}, 4, 0.8),
	}

	if got := TopicScore(graphs, twoArraySolves); got != 1.0 {
		t.Errorf("untouched topic = %f, want 1.0", got)
	}
	if got := TopicScore(arrays, twoArraySolves); got != 0.8 {
		t.Errorf("thin topic coverage = %f, want 0.8", got)
	}
	if got := TopicScore(arrays, threeWeakArraySolves); got != 0.6 {
		t.Errorf("low topic confidence = %f, want 0.6", got)
	}
	if got := TopicScore(arrays, threeStrongArraySolves); got != 0.0 {
		t.Errorf("mastered topic = %f, want 0.0", got)
	}
}

func TestDifficultyFitScore(t *testing.T) {
	// Empty history puts the strict ladder at EASY.
	tests := []struct {
		difficulty models.Difficulty
		want       float64
	}{
		{models.DifficultyEasy, 1.0},
		{models.DifficultyMedium, 0.6},
		{models.DifficultyHard, 0.2},
	}

	for _, tt := range tests {
		problem := models.Problem{ID: 1, Difficulty: tt.difficulty}
		if got := DifficultyFitScore(problem, nil); got != tt.want {
			t.Errorf("DifficultyFitScore(%s) = %f, want %f", tt.difficulty, got, tt.want)
		}
	}
}

func TestScoreCandidates(t *testing.T) {
	reviewable := models.Problem{ID: 1, Title: "Two Sum", Topic: "Array", Difficulty: models.DifficultyEasy}
	freshEasy := models.Problem{ID: 2, Title: "Valid Parentheses", Topic: "Stack", Difficulty: models.DifficultyEasy}
	freshHard := models.Problem{ID: 3, Title: "Median of Two Sorted Arrays", Topic: "Binary Search", Difficulty: models.DifficultyHard}
	active := models.Problem{ID: 4, Title: "Add Two Numbers", Topic: "Linked List", Difficulty: models.DifficultyMedium}
	recentSolve := models.Problem{ID: 5, Title: "Climbing Stairs", Topic: "Dynamic Programming", Difficulty: models.DifficultyEasy}

	solved := []models.ProgressRecord{
		solvedDaysAgo(reviewable, 15, 0.9),
		solvedDaysAgo(recentSolve, 3, 0.9),
	}
	inProgress := map[int64]bool{active.ID: true}
	problems := []models.Problem{reviewable, freshEasy, freshHard, active, recentSolve}

	results := ScoreCandidates(solved, inProgress, problems, 10, scorerNow)

	// recentSolve has zero score (solved 3 days ago, no other signals apply),
	// active is skipped, so three candidates remain.
	if len(results) != 3 {
		t.Fatalf("got %d candidates, want 3", len(results))
	}

	// freshEasy: topic 1.0*0.4 + fit 1.0*0.3 = 0.7
	if results[0].Problem.ID != freshEasy.ID {
		t.Errorf("top candidate = %d, want %d", results[0].Problem.ID, freshEasy.ID)
	}
	if math.Abs(results[0].Score-0.7) > 1e-9 {
		t.Errorf("top score = %f, want 0.7", results[0].Score)
	}
	if results[0].Reason != "Focus area: Stack. Matches your current skill level." {
		t.Errorf("top reason = %q", results[0].Reason)
	}

	// freshHard: topic 1.0*0.4 + fit 0.2*0.3 = 0.46, no skill-level rationale
	if results[1].Problem.ID != freshHard.ID {
		t.Errorf("second candidate = %d, want %d", results[1].Problem.ID, freshHard.ID)
	}
	if math.Abs(results[1].Score-0.46) > 1e-9 {
		t.Errorf("second score = %f, want 0.46", results[1].Score)
	}
	if results[1].Reason != "Focus area: Binary Search." {
		t.Errorf("second reason = %q", results[1].Reason)
	}

	// reviewable: spaced (15-7)/23 * 0.5 ≈ 0.1739, review signal only
	if results[2].Problem.ID != reviewable.ID {
		t.Errorf("third candidate = %d, want %d", results[2].Problem.ID, reviewable.ID)
	}
	if math.Abs(results[2].Score-8.0/23.0*0.5) > 1e-9 {
		t.Errorf("third score = %f, want %f", results[2].Score, 8.0/23.0*0.5)
	}
	if results[2].Reason != "Time to review this problem." {
		t.Errorf("third reason = %q", results[2].Reason)
	}
}

func TestScoreCandidatesTruncates(t *testing.T) {
	problems := []models.Problem{
		{ID: 1, Topic: "Array", Difficulty: models.DifficultyEasy},
		{ID: 2, Topic: "Stack", Difficulty: models.DifficultyEasy},
		{ID: 3, Topic: "Graph", Difficulty: models.DifficultyEasy},
	}

	results := ScoreCandidates(nil, nil, problems, 2, scorerNow)
	if len(results) != 2 {
		t.Errorf("got %d candidates, want 2", len(results))
	}
}
