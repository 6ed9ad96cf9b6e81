package models

import "time"

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "NOT_STARTED"
	StatusInProgress ProgressStatus = "IN_PROGRESS"
	StatusSolved     ProgressStatus = "SOLVED"
	StatusGaveUp     ProgressStatus = "GAVE_UP"
)

var validStatuses = map[ProgressStatus]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusSolved:     true,
	StatusGaveUp:     true,
}

func (s ProgressStatus) Valid() bool {
	return validStatuses[s]
}

// ProgressRecord is the per-(user, problem) progress row. At most one record
// exists per pair; it is created on first interaction and mutated in place.
// Problem is populated from a join when the record is read back for scoring
// or display.
type ProgressRecord struct {
	ID               int64          `json:"id"`
	UserID           int64          `json:"user_id"`
	ProblemID        int64          `json:"problem_id"`
	Status           ProgressStatus `json:"status"`
	AttemptedAt      time.Time      `json:"attempted_at"`
	SolvedAt         *time.Time     `json:"solved_at,omitempty"`
	TimeSpentMinutes *int           `json:"time_spent_minutes,omitempty"`
	AttemptsCount    int            `json:"attempts_count"`
	HintsUsed        int            `json:"hints_used"`
	ConfidenceScore  float64        `json:"confidence_score"`
	Bookmarked       bool           `json:"bookmarked"`
	Problem          Problem        `json:"problem"`
}

// RecommendationResult pairs a candidate problem with its weighted score and a
// human-readable rationale. The score is a weighted sum and is intentionally
// not clamped to [0,1].
type RecommendationResult struct {
	Problem Problem `json:"problem"`
	Reason  string  `json:"reason"`
	Score   float64 `json:"score"`
}

// ── Request Types ────────────────────────────────────────

type SolveProblemRequest struct {
	TimeSpentMinutes *int     `json:"time_spent_minutes,omitempty"`
	ConfidenceScore  *float64 `json:"confidence_score,omitempty"`
}

// ── Response Types ───────────────────────────────────────

type ProgressResponse struct {
	Message  string          `json:"message"`
	Progress *ProgressRecord `json:"progress"`
}

type ProgressListResponse struct {
	Progress []ProgressRecord `json:"progress"`
	Total    int              `json:"total"`
}

type ProgressStats struct {
	TotalSolved            int64              `json:"total_solved"`
	InProgress             int64              `json:"in_progress"`
	TotalProblems          int64              `json:"total_problems"`
	CompletionRate         float64            `json:"completion_rate"`
	SolvedByDifficulty     map[string]int64   `json:"solved_by_difficulty"`
	SolvedByTopic          map[string]int64   `json:"solved_by_topic"`
	AverageConfidence      float64            `json:"average_confidence"`
	ConfidenceByDifficulty map[string]float64 `json:"confidence_by_difficulty"`
}

type RecommendationListResponse struct {
	Recommendations []Problem `json:"recommendations"`
}

type EnhancedRecommendationResponse struct {
	Recommendations []RecommendationResult `json:"recommendations"`
}

type DashboardResponse struct {
	Recommendations []Problem        `json:"recommendations"`
	Stats           ProgressStats    `json:"stats"`
	InProgress      []ProgressRecord `json:"in_progress"`
	RecentlySolved  []ProgressRecord `json:"recently_solved"`
}
