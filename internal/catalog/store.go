package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/algocoach/backend/internal/models"
)

// Store is the problem-catalog persistence layer.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const problemColumns = `id, title, difficulty, topic, acceptance_rate, leetcode_id,
	       COALESCE(description, ''), COALESCE(examples, ''), COALESCE(constraints, '')`

func scanProblem(scan func(dest ...interface{}) error) (*models.Problem, error) {
	var p models.Problem
	err := scan(&p.ID, &p.Title, &p.Difficulty, &p.Topic, &p.AcceptanceRate,
		&p.LeetcodeID, &p.Description, &p.Examples, &p.Constraints)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) queryProblems(query string, args ...interface{}) ([]models.Problem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	var problems []models.Problem
	for rows.Next() {
		p, err := scanProblem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		problems = append(problems, *p)
	}
	return problems, rows.Err()
}

func (s *Store) FindAll() ([]models.Problem, error) {
	return s.queryProblems(`SELECT ` + problemColumns + ` FROM problems ORDER BY id`)
}

// FindByID returns the problem or models.ErrNotFound.
func (s *Store) FindByID(id int64) (*models.Problem, error) {
	row := s.db.QueryRow(`SELECT `+problemColumns+` FROM problems WHERE id = $1`, id)
	p, err := scanProblem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: problem %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find problem: %w", err)
	}
	return p, nil
}

func (s *Store) FindByDifficulty(difficulty models.Difficulty) ([]models.Problem, error) {
	return s.queryProblems(
		`SELECT `+problemColumns+` FROM problems WHERE difficulty = $1 ORDER BY id`,
		difficulty,
	)
}

// FindByTopic matches the topic case-insensitively.
func (s *Store) FindByTopic(topic string) ([]models.Problem, error) {
	return s.queryProblems(
		`SELECT `+problemColumns+` FROM problems WHERE LOWER(topic) = LOWER($1) ORDER BY id`,
		topic,
	)
}

// Search matches the title case-insensitively as a substring.
func (s *Store) Search(query string) ([]models.Problem, error) {
	return s.queryProblems(
		`SELECT `+problemColumns+` FROM problems WHERE title ILIKE $1 ORDER BY id`,
		"%"+query+"%",
	)
}

// sortClauses whitelists the discover sort keys. Anything else falls back to
// the default ordering.
var sortClauses = map[string]string{
	"title":           "title ASC",
	"difficulty":      "CASE difficulty WHEN 'EASY' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END, id",
	"acceptance_rate": "acceptance_rate DESC",
	"id":              "id ASC",
}

// SortOptions returns the accepted discover sort keys.
func SortOptions() []string {
	return []string{"id", "title", "difficulty", "acceptance_rate"}
}

// FindPage returns one page of the catalog plus the total count of rows
// matching the filters. Empty filter values mean "any".
func (s *Store) FindPage(difficulty models.Difficulty, topic, sortBy string, page, size int) ([]models.Problem, int64, error) {
	var conditions []string
	var args []interface{}

	if difficulty != "" {
		args = append(args, difficulty)
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if topic != "" {
		args = append(args, topic)
		conditions = append(conditions, fmt.Sprintf("LOWER(topic) = LOWER($%d)", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM problems`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count problems: %w", err)
	}

	orderBy, ok := sortClauses[sortBy]
	if !ok {
		orderBy = sortClauses["id"]
	}

	args = append(args, size, page*size)
	problems, err := s.queryProblems(
		`SELECT `+problemColumns+` FROM problems`+where+
			` ORDER BY `+orderBy+
			fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	return problems, total, nil
}

func (s *Store) TotalCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM problems`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return count, nil
}

func (s *Store) CountByDifficulty() (map[string]int64, error) {
	return s.countGrouped("difficulty")
}

func (s *Store) CountByTopic() (map[string]int64, error) {
	return s.countGrouped("topic")
}

func (s *Store) countGrouped(column string) (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT ` + column + `, COUNT(*) FROM problems GROUP BY ` + column)
	if err != nil {
		return nil, fmt.Errorf("count grouped: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan grouped count: %w", err)
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// AverageAcceptanceByDifficulty returns the mean acceptance rate per tier.
func (s *Store) AverageAcceptanceByDifficulty() (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT difficulty, AVG(acceptance_rate) FROM problems GROUP BY difficulty`)
	if err != nil {
		return nil, fmt.Errorf("average acceptance: %w", err)
	}
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var difficulty string
		var avg float64
		if err := rows.Scan(&difficulty, &avg); err != nil {
			return nil, fmt.Errorf("scan average: %w", err)
		}
		averages[difficulty] = avg
	}
	return averages, rows.Err()
}

// Topics returns the distinct topics in alphabetical order.
func (s *Store) Topics() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT topic FROM problems ORDER BY topic`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

func (s *Store) Create(req models.CreateProblemRequest) (*models.Problem, error) {
	row := s.db.QueryRow(
		`INSERT INTO problems (title, difficulty, topic, acceptance_rate, leetcode_id, description, examples, constraints)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+problemColumns,
		req.Title, req.Difficulty, req.Topic, req.AcceptanceRate,
		req.LeetcodeID, req.Description, req.Examples, req.Constraints,
	)
	p, err := scanProblem(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}
	return p, nil
}

func (s *Store) Update(id int64, req models.CreateProblemRequest) (*models.Problem, error) {
	row := s.db.QueryRow(
		`UPDATE problems
		 SET title = $1, difficulty = $2, topic = $3, acceptance_rate = $4,
		     leetcode_id = $5, description = $6, examples = $7, constraints = $8
		 WHERE id = $9
		 RETURNING `+problemColumns,
		req.Title, req.Difficulty, req.Topic, req.AcceptanceRate,
		req.LeetcodeID, req.Description, req.Examples, req.Constraints, id,
	)
	p, err := scanProblem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: problem %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update problem: %w", err)
	}
	return p, nil
}

func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete problem: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete problem: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: problem %d", models.ErrNotFound, id)
	}
	return nil
}
