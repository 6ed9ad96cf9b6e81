package catalog

import (
	"log"
	"math"
	"net/http"

	"github.com/algocoach/backend/internal/models"
)

// Overview reports the catalog size split by tier.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.TotalCount()
	if err != nil {
		log.Printf("[catalog] Overview error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get catalog overview"})
		return
	}
	byDifficulty, err := h.store.CountByDifficulty()
	if err != nil {
		log.Printf("[catalog] Overview error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get catalog overview"})
		return
	}

	writeJSON(w, http.StatusOK, models.CatalogOverview{
		Total:  total,
		Easy:   byDifficulty[string(models.DifficultyEasy)],
		Medium: byDifficulty[string(models.DifficultyMedium)],
		Hard:   byDifficulty[string(models.DifficultyHard)],
	})
}

// DifficultyBreakdown reports per-tier counts, percentages, and average
// acceptance rates.
func (h *Handler) DifficultyBreakdown(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.TotalCount()
	if err != nil {
		log.Printf("[catalog] DifficultyBreakdown error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get difficulty breakdown"})
		return
	}
	byDifficulty, err := h.store.CountByDifficulty()
	if err != nil {
		log.Printf("[catalog] DifficultyBreakdown error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get difficulty breakdown"})
		return
	}
	averages, err := h.store.AverageAcceptanceByDifficulty()
	if err != nil {
		log.Printf("[catalog] DifficultyBreakdown error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get difficulty breakdown"})
		return
	}

	breakdown := make(map[string]models.DifficultySlice, len(byDifficulty))
	for difficulty, count := range byDifficulty {
		breakdown[difficulty] = models.DifficultySlice{
			Count:      count,
			Percentage: percentage(count, total),
		}
	}

	rounded := make(map[string]float64, len(averages))
	for difficulty, avg := range averages {
		rounded[difficulty] = math.Round(avg*100) / 100
	}

	writeJSON(w, http.StatusOK, models.DifficultyBreakdown{
		Total:                  total,
		Breakdown:              breakdown,
		AverageAcceptanceRates: rounded,
	})
}

// TopicBreakdown reports per-topic counts and percentages.
func (h *Handler) TopicBreakdown(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.TotalCount()
	if err != nil {
		log.Printf("[catalog] TopicBreakdown error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get topic breakdown"})
		return
	}
	byTopic, err := h.store.CountByTopic()
	if err != nil {
		log.Printf("[catalog] TopicBreakdown error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get topic breakdown"})
		return
	}

	breakdown := make(map[string]models.TopicSlice, len(byTopic))
	for topic, count := range byTopic {
		breakdown[topic] = models.TopicSlice{
			Count:      count,
			Percentage: percentage(count, total),
		}
	}

	writeJSON(w, http.StatusOK, models.TopicBreakdown{
		Total:     total,
		Breakdown: breakdown,
	})
}

func percentage(count, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
