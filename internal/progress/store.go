package progress

import (
	"database/sql"
	"fmt"

	"github.com/algocoach/backend/internal/models"
)

// Store persists progress records in Postgres, one row per (user, problem)
// pair. Reads join the problems table so callers get the difficulty and topic
// needed for scoring without a second query.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const recordColumns = `up.id, up.user_id, up.problem_id, up.status, up.attempted_at,
	       up.solved_at, up.time_spent_minutes, up.attempts_count, up.hints_used,
	       up.confidence_score, up.bookmarked,
	       p.id, p.title, p.difficulty, p.topic, p.acceptance_rate`

// scanRecord reads a joined row. The problems side is a LEFT JOIN: a progress
// row whose problem is gone from the catalog is a hard inconsistency, never
// silently skipped.
func scanRecord(scan func(dest ...interface{}) error) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	var problemID sql.NullInt64
	var title, difficulty, topic sql.NullString
	var acceptanceRate sql.NullFloat64

	err := scan(&rec.ID, &rec.UserID, &rec.ProblemID, &rec.Status, &rec.AttemptedAt,
		&rec.SolvedAt, &rec.TimeSpentMinutes, &rec.AttemptsCount, &rec.HintsUsed,
		&rec.ConfidenceScore, &rec.Bookmarked,
		&problemID, &title, &difficulty, &topic, &acceptanceRate)
	if err != nil {
		return nil, err
	}

	if !problemID.Valid {
		return nil, fmt.Errorf("%w: progress record %d references missing problem %d",
			models.ErrInconsistent, rec.ID, rec.ProblemID)
	}
	rec.Problem = models.Problem{
		ID:             problemID.Int64,
		Title:          title.String,
		Difficulty:     models.Difficulty(difficulty.String),
		Topic:          topic.String,
		AcceptanceRate: acceptanceRate.Float64,
	}
	return &rec, nil
}

// Find returns the record for the pair, or (nil, nil) when none exists.
func (s *Store) Find(userID, problemID int64) (*models.ProgressRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+recordColumns+`
		 FROM user_progress up
		 LEFT JOIN problems p ON p.id = up.problem_id
		 WHERE up.user_id = $1 AND up.problem_id = $2`,
		userID, problemID,
	)
	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return rec, nil
}

func (s *Store) queryRecords(query string, args ...interface{}) ([]models.ProgressRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var records []models.ProgressRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// FindSolved returns the user's solved records, most recent solve first.
func (s *Store) FindSolved(userID int64) ([]models.ProgressRecord, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+`
		 FROM user_progress up
		 LEFT JOIN problems p ON p.id = up.problem_id
		 WHERE up.user_id = $1 AND up.status = $2
		 ORDER BY up.solved_at DESC`,
		userID, models.StatusSolved,
	)
}

func (s *Store) FindByStatus(userID int64, status models.ProgressStatus) ([]models.ProgressRecord, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+`
		 FROM user_progress up
		 LEFT JOIN problems p ON p.id = up.problem_id
		 WHERE up.user_id = $1 AND up.status = $2
		 ORDER BY up.attempted_at DESC`,
		userID, status,
	)
}

// FindByUser returns every record for the user, most recently attempted first.
func (s *Store) FindByUser(userID int64) ([]models.ProgressRecord, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+`
		 FROM user_progress up
		 LEFT JOIN problems p ON p.id = up.problem_id
		 WHERE up.user_id = $1
		 ORDER BY up.attempted_at DESC`,
		userID,
	)
}

func (s *Store) CountByStatus(userID int64, status models.ProgressStatus) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND status = $2`,
		userID, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count by status: %w", err)
	}
	return count, nil
}

func (s *Store) CountSolvedByDifficulty(userID int64) (map[string]int64, error) {
	return s.countSolvedGrouped(userID, "p.difficulty")
}

func (s *Store) CountSolvedByTopic(userID int64) (map[string]int64, error) {
	return s.countSolvedGrouped(userID, "p.topic")
}

func (s *Store) countSolvedGrouped(userID int64, column string) (map[string]int64, error) {
	rows, err := s.db.Query(
		`SELECT `+column+`, COUNT(*)
		 FROM user_progress up
		 JOIN problems p ON p.id = up.problem_id
		 WHERE up.user_id = $1 AND up.status = $2
		 GROUP BY `+column,
		userID, models.StatusSolved,
	)
	if err != nil {
		return nil, fmt.Errorf("count solved grouped: %w", err)
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

// Save upserts the record on the (user_id, problem_id) unique pair and
// returns it with the generated id filled in.
func (s *Store) Save(rec *models.ProgressRecord) (*models.ProgressRecord, error) {
	err := s.db.QueryRow(
		`INSERT INTO user_progress
		 (user_id, problem_id, status, attempted_at, solved_at, time_spent_minutes,
		  attempts_count, hints_used, confidence_score, bookmarked)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id, problem_id) DO UPDATE SET
		   status = EXCLUDED.status,
		   attempted_at = EXCLUDED.attempted_at,
		   solved_at = EXCLUDED.solved_at,
		   time_spent_minutes = EXCLUDED.time_spent_minutes,
		   attempts_count = EXCLUDED.attempts_count,
		   hints_used = EXCLUDED.hints_used,
		   confidence_score = EXCLUDED.confidence_score,
		   bookmarked = EXCLUDED.bookmarked
		 RETURNING id`,
		rec.UserID, rec.ProblemID, rec.Status, rec.AttemptedAt, rec.SolvedAt,
		rec.TimeSpentMinutes, rec.AttemptsCount, rec.HintsUsed,
		rec.ConfidenceScore, rec.Bookmarked,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return rec, nil
}
