package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// AllDifficulties is the canonical tier order, easiest first.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

var difficultyRank = map[Difficulty]int{
	DifficultyEasy:   0,
	DifficultyMedium: 1,
	DifficultyHard:   2,
}

// Rank returns the tier's position in the EASY < MEDIUM < HARD order.
func (d Difficulty) Rank() int {
	return difficultyRank[d]
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyRank[d]
	return ok
}

type Problem struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Difficulty     Difficulty `json:"difficulty"`
	Topic          string     `json:"topic"`
	AcceptanceRate float64    `json:"acceptance_rate"`
	LeetcodeID     *int64     `json:"leetcode_id,omitempty"`
	Description    string     `json:"description,omitempty"`
	Examples       string     `json:"examples,omitempty"`
	Constraints    string     `json:"constraints,omitempty"`
}

// ── Request Types ────────────────────────────────────────

type CreateProblemRequest struct {
	Title          string     `json:"title"`
	Difficulty     Difficulty `json:"difficulty"`
	Topic          string     `json:"topic"`
	AcceptanceRate float64    `json:"acceptance_rate"`
	LeetcodeID     *int64     `json:"leetcode_id,omitempty"`
	Description    string     `json:"description,omitempty"`
	Examples       string     `json:"examples,omitempty"`
	Constraints    string     `json:"constraints,omitempty"`
}

// ── Response Types ───────────────────────────────────────

type ProblemListResponse struct {
	Problems []Problem `json:"problems"`
	Total    int       `json:"total"`
}

type DiscoverResponse struct {
	Problems    []Problem       `json:"problems"`
	TotalCount  int             `json:"total_count"`
	Page        int             `json:"page"`
	Size        int             `json:"size"`
	TotalPages  int             `json:"total_pages"`
	HasNext     bool            `json:"has_next"`
	HasPrevious bool            `json:"has_previous"`
	Filters     DiscoverFilters `json:"filters"`
}

type DiscoverFilters struct {
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
	SortBy     string `json:"sort_by"`
}

type FilterOptionsResponse struct {
	Topics       []string `json:"topics"`
	Difficulties []string `json:"difficulties"`
	SortOptions  []string `json:"sort_options"`
}

// ── Catalog Stats Types ──────────────────────────────────

type CatalogOverview struct {
	Total  int64 `json:"total"`
	Easy   int64 `json:"easy"`
	Medium int64 `json:"medium"`
	Hard   int64 `json:"hard"`
}

type DifficultySlice struct {
	Count      int64 `json:"count"`
	Percentage int   `json:"percentage"`
}

type DifficultyBreakdown struct {
	Total                  int64                      `json:"total"`
	Breakdown              map[string]DifficultySlice `json:"breakdown"`
	AverageAcceptanceRates map[string]float64         `json:"average_acceptance_rates"`
}

type TopicSlice struct {
	Count      int64 `json:"count"`
	Percentage int   `json:"percentage"`
}

type TopicBreakdown struct {
	Total     int64                 `json:"total"`
	Breakdown map[string]TopicSlice `json:"breakdown"`
}
