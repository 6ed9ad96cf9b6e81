package catalog

import (
	"fmt"
	"log"

	"github.com/algocoach/backend/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

// starterProblems is the baseline catalog loaded into an empty database so a
// fresh install has something to recommend.
var starterProblems = []models.CreateProblemRequest{
	{Title: "Two Sum", Difficulty: models.DifficultyEasy, Topic: "Array", AcceptanceRate: 45.8, LeetcodeID: int64Ptr(1)},
	{Title: "Valid Parentheses", Difficulty: models.DifficultyEasy, Topic: "Stack", AcceptanceRate: 38.4, LeetcodeID: int64Ptr(20)},
	{Title: "Maximum Subarray", Difficulty: models.DifficultyEasy, Topic: "Dynamic Programming", AcceptanceRate: 50.2, LeetcodeID: int64Ptr(53)},
	{Title: "Climbing Stairs", Difficulty: models.DifficultyEasy, Topic: "Dynamic Programming", AcceptanceRate: 51.3, LeetcodeID: int64Ptr(70)},
	{Title: "Best Time to Buy and Sell Stock", Difficulty: models.DifficultyEasy, Topic: "Array", AcceptanceRate: 49.7, LeetcodeID: int64Ptr(121)},
	{Title: "Add Two Numbers", Difficulty: models.DifficultyMedium, Topic: "Linked List", AcceptanceRate: 36.8, LeetcodeID: int64Ptr(2)},
	{Title: "Longest Substring Without Repeating Characters", Difficulty: models.DifficultyMedium, Topic: "String", AcceptanceRate: 33.2, LeetcodeID: int64Ptr(3)},
	{Title: "Median of Two Sorted Arrays", Difficulty: models.DifficultyHard, Topic: "Binary Search", AcceptanceRate: 35.2, LeetcodeID: int64Ptr(4)},
}

// Seed inserts the starter problems when the catalog is empty. A non-empty
// catalog is left alone so the seed never duplicates or overwrites.
func Seed(store *Store) error {
	count, err := store.TotalCount()
	if err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, req := range starterProblems {
		if _, err := store.Create(req); err != nil {
			return fmt.Errorf("seed problem %q: %w", req.Title, err)
		}
	}
	log.Printf("[catalog] seeded %d starter problems", len(starterProblems))
	return nil
}
