package recommend

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

const (
	defaultRecommendationLimit = 5
	dashboardRecommendations   = 3
	dashboardRecentSolves      = 5
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", defaultRecommendationLimit)

	problems, err := h.service.GetRecommendedProblems(userID, limit)
	if err != nil {
		log.Printf("[recommend] GetRecommendations error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get recommendations"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.RecommendationListResponse{Recommendations: problems})
}

func (h *Handler) GetEnhancedRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", defaultRecommendationLimit)

	recommendations, err := h.service.GetEnhancedRecommendations(userID, limit)
	if err != nil {
		log.Printf("[recommend] GetEnhancedRecommendations error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get recommendations"})
		return
	}

	if recommendations == nil {
		recommendations = []models.RecommendationResult{}
	}
	writeJSON(w, http.StatusOK, models.EnhancedRecommendationResponse{Recommendations: recommendations})
}

func (h *Handler) GetTopicPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	topic := mux.Vars(r)["topic"]
	limit := intQueryParam(r.URL.Query(), "limit", defaultRecommendationLimit)

	problems, err := h.service.GetProblemsByTopic(userID, topic, limit)
	if err != nil {
		log.Printf("[recommend] GetTopicPractice error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get practice problems"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.RecommendationListResponse{Recommendations: problems})
}

func (h *Handler) GetRandomPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	difficulty := models.Difficulty(query.Get("difficulty"))
	limit := intQueryParam(query, "limit", defaultRecommendationLimit)

	problems, err := h.service.GetRandomProblems(userID, difficulty, limit)
	if errors.Is(err, models.ErrInvalidArgument) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be EASY, MEDIUM, or HARD"})
		return
	}
	if err != nil {
		log.Printf("[recommend] GetRandomPractice error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get practice problems"})
		return
	}

	if problems == nil {
		problems = []models.Problem{}
	}
	writeJSON(w, http.StatusOK, models.RecommendationListResponse{Recommendations: problems})
}

func (h *Handler) GetProgressStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	stats, err := h.service.GetProgressStats(userID)
	if err != nil {
		log.Printf("[recommend] GetProgressStats error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get progress stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetDashboard bundles the landing-page payload into one response:
// recommendations, stats, in-progress work, and recent solves.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	recommendations, err := h.service.GetRecommendedProblems(userID, dashboardRecommendations)
	if err != nil {
		log.Printf("[recommend] GetDashboard error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	stats, err := h.service.GetProgressStats(userID)
	if err != nil {
		log.Printf("[recommend] GetDashboard error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	inProgress, err := h.service.InProgressProblems(userID)
	if err != nil {
		log.Printf("[recommend] GetDashboard error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	solved, err := h.service.SolvedProblems(userID)
	if err != nil {
		log.Printf("[recommend] GetDashboard error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}

	// FindSolved is ordered most recent first, so the head is the recency cut.
	if len(solved) > dashboardRecentSolves {
		solved = solved[:dashboardRecentSolves]
	}

	if recommendations == nil {
		recommendations = []models.Problem{}
	}
	if inProgress == nil {
		inProgress = []models.ProgressRecord{}
	}
	if solved == nil {
		solved = []models.ProgressRecord{}
	}

	writeJSON(w, http.StatusOK, models.DashboardResponse{
		Recommendations: recommendations,
		Stats:           *stats,
		InProgress:      inProgress,
		RecentlySolved:  solved,
	})
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
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
