package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/algocoach/backend/internal/models"
	"github.com/gorilla/mux"
)

// ProblemFinder resolves catalog problems so mutations on unknown ids fail
// with 404 before touching progress state. Satisfied by the catalog store.
type ProblemFinder interface {
	FindByID(id int64) (*models.Problem, error)
}

type Handler struct {
	tracker  *Tracker
	store    *Store
	problems ProblemFinder
}

func NewHandler(tracker *Tracker, store *Store, problems ProblemFinder) *Handler {
	return &Handler{tracker: tracker, store: store, problems: problems}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// requestIDs extracts the user id from context and the problem id from the
// path, then verifies the problem exists. Writes the error response itself
// when anything is off.
func (h *Handler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, problemID int64, ok bool) {
	userID, ok = getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return 0, 0, false
	}

	vars := mux.Vars(r)
	problemID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid problem ID"})
		return 0, 0, false
	}

	if _, err := h.problems.FindByID(problemID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Problem not found"})
			return 0, 0, false
		}
		log.Printf("[progress] resolve problem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return 0, 0, false
	}

	return userID, problemID, true
}

func (h *Handler) StartProblem(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.tracker.Start(userID, problemID)
	if err != nil {
		log.Printf("[progress] StartProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to start problem"})
		return
	}

	writeJSON(w, http.StatusOK, models.ProgressResponse{Message: "Problem started", Progress: rec})
}

func (h *Handler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.tracker.RecordAttempt(userID, problemID)
	if err != nil {
		log.Printf("[progress] RecordAttempt error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}

	writeJSON(w, http.StatusOK, models.ProgressResponse{Message: "Attempt recorded", Progress: rec})
}

func (h *Handler) UseHint(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.tracker.UseHint(userID, problemID)
	if err != nil {
		log.Printf("[progress] UseHint error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record hint"})
		return
	}

	writeJSON(w, http.StatusOK, models.ProgressResponse{Message: "Hint recorded", Progress: rec})
}

func (h *Handler) SolveProblem(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	// Body is optional; an empty body means no time or confidence override.
	var req models.SolveProblemRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	rec, err := h.tracker.Solve(userID, problemID, req.TimeSpentMinutes, req.ConfidenceScore)
	if err != nil {
		log.Printf("[progress] SolveProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to mark problem solved"})
		return
	}

	writeJSON(w, http.StatusOK, models.ProgressResponse{Message: "Problem solved", Progress: rec})
}

func (h *Handler) GiveUpProblem(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.tracker.GiveUp(userID, problemID)
	if err != nil {
		log.Printf("[progress] GiveUpProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to mark problem abandoned"})
		return
	}

	writeJSON(w, http.StatusOK, models.ProgressResponse{Message: "Problem marked as given up", Progress: rec})
}

func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.tracker.ToggleBookmark(userID, problemID)
	if err != nil {
		log.Printf("[progress] ToggleBookmark error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to toggle bookmark"})
		return
	}

	message := "Bookmark removed"
	if rec.Bookmarked {
		message = "Bookmark added"
	}
	writeJSON(w, http.StatusOK, models.ProgressResponse{Message: message, Progress: rec})
}

// GetProblemProgress returns the record for one problem, or 404 when the user
// has never touched it.
func (h *Handler) GetProblemProgress(w http.ResponseWriter, r *http.Request) {
	userID, problemID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	rec, err := h.store.Find(userID, problemID)
	if err != nil {
		log.Printf("[progress] GetProblemProgress error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get progress"})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No progress for this problem"})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	records, err := h.store.FindByUser(userID)
	if err != nil {
		log.Printf("[progress] ListProgress error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list progress"})
		return
	}

	if records == nil {
		records = []models.ProgressRecord{}
	}
	writeJSON(w, http.StatusOK, models.ProgressListResponse{Progress: records, Total: len(records)})
}

func (h *Handler) ListSolved(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, models.StatusSolved)
}

func (h *Handler) ListInProgress(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, models.StatusInProgress)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request, status models.ProgressStatus) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var records []models.ProgressRecord
	var err error
	if status == models.StatusSolved {
		records, err = h.store.FindSolved(userID)
	} else {
		records, err = h.store.FindByStatus(userID, status)
	}
	if err != nil {
		log.Printf("[progress] listByStatus error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list progress"})
		return
	}

	if records == nil {
		records = []models.ProgressRecord{}
	}
	writeJSON(w, http.StatusOK, models.ProgressListResponse{Progress: records, Total: len(records)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
