package catalog

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/algocoach/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListProblems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var problems []models.Problem
	var err error
	switch {
	case query.Get("difficulty") != "":
		difficulty := models.Difficulty(query.Get("difficulty"))
		if !difficulty.Valid() {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be EASY, MEDIUM, or HARD"})
			return
		}
		problems, err = h.store.FindByDifficulty(difficulty)
	case query.Get("topic") != "":
		problems, err = h.store.FindByTopic(query.Get("topic"))
	default:
		problems, err = h.store.FindAll()
	}

	if err != nil {
		log.Printf("[catalog] ListProblems error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list problems"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.ProblemListResponse{Problems: problems, Total: len(problems)})
}

func (h *Handler) GetProblem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	problem, err := h.store.FindByID(id)
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Problem not found"})
		return
	}
	if err != nil {
		log.Printf("[catalog] GetProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get problem"})
		return
	}

	writeJSON(w, http.StatusOK, problem)
}

func (h *Handler) ListByDifficulty(w http.ResponseWriter, r *http.Request) {
	difficulty := models.Difficulty(mux.Vars(r)["difficulty"])
	if !difficulty.Valid() {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be EASY, MEDIUM, or HARD"})
		return
	}

	problems, err := h.store.FindByDifficulty(difficulty)
	if err != nil {
		log.Printf("[catalog] ListByDifficulty error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list problems"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.ProblemListResponse{Problems: problems, Total: len(problems)})
}

func (h *Handler) ListByTopic(w http.ResponseWriter, r *http.Request) {
	problems, err := h.store.FindByTopic(mux.Vars(r)["topic"])
	if err != nil {
		log.Printf("[catalog] ListByTopic error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list problems"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.ProblemListResponse{Problems: problems, Total: len(problems)})
}

func (h *Handler) SearchProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Query parameter 'q' is required"})
		return
	}

	problems, err := h.store.Search(q)
	if err != nil {
		log.Printf("[catalog] SearchProblems error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Search failed"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.ProblemListResponse{Problems: problems, Total: len(problems)})
}

// Discover serves the paginated catalog browser with filters and sorting.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	difficulty := models.Difficulty(query.Get("difficulty"))
	if difficulty != "" && !difficulty.Valid() {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be EASY, MEDIUM, or HARD"})
		return
	}
	topic := query.Get("topic")
	sortBy := query.Get("sort_by")
	if sortBy == "" {
		sortBy = "id"
	}

	page := intQueryParam(query, "page", 0)
	size := intQueryParam(query, "size", 20)
	if size <= 0 || size > 100 {
		size = 20
	}

	problems, total, err := h.store.FindPage(difficulty, topic, sortBy, page, size)
	if err != nil {
		log.Printf("[catalog] Discover error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to browse problems"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	totalPages := int((total + int64(size) - 1) / int64(size))

	writeJSON(w, http.StatusOK, models.DiscoverResponse{
		Problems:    problems,
		TotalCount:  int(total),
		Page:        page,
		Size:        size,
		TotalPages:  totalPages,
		HasNext:     page+1 < totalPages,
		HasPrevious: page > 0,
		Filters: models.DiscoverFilters{
			Difficulty: string(difficulty),
			Topic:      topic,
			SortBy:     sortBy,
		},
	})
}

// FilterOptions returns the values the discover UI can filter and sort by.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.Topics()
	if err != nil {
		log.Printf("[catalog] FilterOptions error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get filter options"})
		return
	}

	if topics == nil {
		topics = []string{}
	}
	difficulties := make([]string, 0, len(models.AllDifficulties))
	for _, d := range models.AllDifficulties {
		difficulties = append(difficulties, string(d))
	}

	writeJSON(w, http.StatusOK, models.FilterOptionsResponse{
		Topics:       topics,
		Difficulties: difficulties,
		SortOptions:  SortOptions(),
	})
}

func (h *Handler) CreateProblem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Title == "" || req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Title and topic are required"})
		return
	}
	if !req.Difficulty.Valid() {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be EASY, MEDIUM, or HARD"})
		return
	}

	problem, err := h.store.Create(req)
	if err != nil {
		log.Printf("[catalog] CreateProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create problem"})
		return
	}

	writeJSON(w, http.StatusCreated, problem)
}

func (h *Handler) UpdateProblem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Title == "" || req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Title and topic are required"})
		return
	}
	if !req.Difficulty.Valid() {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be EASY, MEDIUM, or HARD"})
		return
	}

	problem, err := h.store.Update(id, req)
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Problem not found"})
		return
	}
	if err != nil {
		log.Printf("[catalog] UpdateProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update problem"})
		return
	}

	writeJSON(w, http.StatusOK, problem)
}

func (h *Handler) DeleteProblem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.store.Delete(id)
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Problem not found"})
		return
	}
	if err != nil {
		log.Printf("[catalog] DeleteProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete problem"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid problem ID"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
