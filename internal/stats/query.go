package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/lecternhq/lectern/internal/docstore"
)

// Period holds one month of counters for a user.
type Period struct {
	Period        string `json:"period"`
	LessonPlans   int    `json:"lesson_plans"`
	QuestionSets  int    `json:"question_sets"`
	Presentations int    `json:"presentations"`
	Notes         int    `json:"notes"`
}

// Summary is a user's counters across all periods plus totals.
type Summary struct {
	UserID  string   `json:"user_id"`
	Totals  Period   `json:"totals"`
	Periods []Period `json:"periods"`
}

// Get returns a user's generation counts, newest period first.
func Get(ctx context.Context, client *docstore.Client, userID string) (*Summary, error) {
	resp, err := docstore.NewQuery(Collection).
		Filter("user_id", userID).
		Fields("period", "lesson_plans", "question_sets", "presentations", "notes").
		Execute(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("stats query failed: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	summary := &Summary{UserID: userID, Periods: []Period{}}
	for _, doc := range docstore.Docs(resp, Collection) {
		p := Period{
			LessonPlans:   docInt(doc, "lesson_plans"),
			QuestionSets:  docInt(doc, "question_sets"),
			Presentations: docInt(doc, "presentations"),
			Notes:         docInt(doc, "notes"),
		}
		if v, ok := doc["period"].(string); ok {
			p.Period = v
		}
		summary.Periods = append(summary.Periods, p)

		summary.Totals.LessonPlans += p.LessonPlans
		summary.Totals.QuestionSets += p.QuestionSets
		summary.Totals.Presentations += p.Presentations
		summary.Totals.Notes += p.Notes
	}

	sort.Slice(summary.Periods, func(i, j int) bool {
		return summary.Periods[i].Period > summary.Periods[j].Period
	})
	return summary, nil
}
