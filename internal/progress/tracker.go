package progress

import (
	"fmt"
	"time"

	"github.com/algocoach/backend/internal/models"
)

// RecordStore is the persistence surface the Tracker needs. Find returns
// (nil, nil) when no record exists for the pair.
type RecordStore interface {
	Find(userID, problemID int64) (*models.ProgressRecord, error)
	Save(rec *models.ProgressRecord) (*models.ProgressRecord, error)
}

// CacheInvalidator drops a user's cached recommendations after a progress
// mutation. Satisfied by the recommendation service.
type CacheInvalidator interface {
	InvalidateCache(userID int64)
}

// Tracker drives the per-(user, problem) lifecycle: not-started → in-progress
// → solved / gave-up, plus the attempt and hint counters feeding the
// confidence estimate. Every successful mutation invalidates the user's
// recommendation cache; a failed save leaves the cache untouched.
type Tracker struct {
	store RecordStore
	cache CacheInvalidator
}

func NewTracker(store RecordStore, cache CacheInvalidator) *Tracker {
	return &Tracker{store: store, cache: cache}
}

func newRecord(userID, problemID int64, status models.ProgressStatus) *models.ProgressRecord {
	return &models.ProgressRecord{
		UserID:        userID,
		ProblemID:     problemID,
		Status:        status,
		AttemptedAt:   time.Now(),
		AttemptsCount: 1,
	}
}

// Start begins work on a problem. Creates an in-progress record on first
// contact, promotes a dormant not-started record, and is a no-op on any
// record already past that point — resuming never inflates attempt counts.
func (t *Tracker) Start(userID, problemID int64) (*models.ProgressRecord, error) {
	rec, err := t.store.Find(userID, problemID)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		if rec.Status != models.StatusNotStarted {
			return rec, nil
		}
		rec.Status = models.StatusInProgress
		rec.AttemptedAt = time.Now()
		rec.AttemptsCount++
	} else {
		rec = newRecord(userID, problemID, models.StatusInProgress)
	}

	return t.saveAndInvalidate(userID, rec)
}

// RecordAttempt increments the attempt counter, creating the record if the
// user jumped straight to attempting.
func (t *Tracker) RecordAttempt(userID, problemID int64) (*models.ProgressRecord, error) {
	rec, err := t.store.Find(userID, problemID)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		rec.AttemptsCount++
	} else {
		rec = newRecord(userID, problemID, models.StatusInProgress)
	}

	return t.saveAndInvalidate(userID, rec)
}

// UseHint increments the hint counter, creating the record if needed.
func (t *Tracker) UseHint(userID, problemID int64) (*models.ProgressRecord, error) {
	rec, err := t.store.Find(userID, problemID)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		rec.HintsUsed++
	} else {
		rec = newRecord(userID, problemID, models.StatusInProgress)
		rec.HintsUsed = 1
	}

	return t.saveAndInvalidate(userID, rec)
}

// Solve marks the problem solved, stamps the solve time, and sets the
// confidence score: an explicit override is clamped to [0,1], otherwise the
// score is estimated from the record's counters.
func (t *Tracker) Solve(userID, problemID int64, timeSpentMinutes *int, confidence *float64) (*models.ProgressRecord, error) {
	rec, err := t.store.Find(userID, problemID)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		rec = newRecord(userID, problemID, models.StatusSolved)
	}
	rec.Status = models.StatusSolved
	now := time.Now()
	rec.SolvedAt = &now
	if timeSpentMinutes != nil {
		rec.TimeSpentMinutes = timeSpentMinutes
	}

	if confidence != nil {
		rec.ConfidenceScore = ClampConfidence(*confidence)
	} else {
		rec.ConfidenceScore = ConfidenceScore(rec)
	}

	return t.saveAndInvalidate(userID, rec)
}

// GiveUp marks the problem abandoned. Counters and any confidence score are
// left as-is.
func (t *Tracker) GiveUp(userID, problemID int64) (*models.ProgressRecord, error) {
	rec, err := t.store.Find(userID, problemID)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		rec = newRecord(userID, problemID, models.StatusGaveUp)
	} else {
		rec.Status = models.StatusGaveUp
	}

	return t.saveAndInvalidate(userID, rec)
}

// ToggleBookmark flips the bookmark flag, creating a dormant not-started
// record when the user bookmarks a problem they have not touched.
func (t *Tracker) ToggleBookmark(userID, problemID int64) (*models.ProgressRecord, error) {
	rec, err := t.store.Find(userID, problemID)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		rec = newRecord(userID, problemID, models.StatusNotStarted)
		rec.Bookmarked = true
	} else {
		rec.Bookmarked = !rec.Bookmarked
	}

	return t.saveAndInvalidate(userID, rec)
}

func (t *Tracker) saveAndInvalidate(userID int64, rec *models.ProgressRecord) (*models.ProgressRecord, error) {
	saved, err := t.store.Save(rec)
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	t.cache.InvalidateCache(userID)
	return saved, nil
}
