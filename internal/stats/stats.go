// Package stats tracks per-user content generation counts. Counter
// updates ride an async outbox so a slow or unreachable store never
// blocks a generation request.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/generate"
)

// Collection is the document store collection for counters.
const Collection = "ContentStats"

// PeriodFormat groups counters by calendar month.
const PeriodFormat = "2006-01"

// counterField maps a content type to its counter column.
func counterField(t generate.ContentType) string {
	switch t {
	case generate.TypeLessonPlan:
		return "lesson_plans"
	case generate.TypeQuestionSet:
		return "question_sets"
	case generate.TypePresentation:
		return "presentations"
	case generate.TypeNotes:
		return "notes"
	}
	return ""
}

// Event is a single counter adjustment.
type Event struct {
	UserID string
	Type   generate.ContentType
	Delta  int
}

// Outbox buffers counter events and applies them in the background.
// Events are best effort: a full buffer or a store failure drops the
// event with a log line and nothing else.
type Outbox struct {
	client *docstore.Client
	logger *slog.Logger
	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
	now    func() time.Time
}

// NewOutbox creates an outbox. Call Start before recording events.
func NewOutbox(client *docstore.Client, logger *slog.Logger) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbox{
		client: client,
		logger: logger,
		events: make(chan Event, 256),
		now:    time.Now,
	}
}

// Start launches the worker. It drains remaining events after ctx is
// cancelled, then exits.
func (o *Outbox) Start(ctx context.Context) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case ev, ok := <-o.events:
				if !ok {
					return
				}
				o.apply(ev)
			case <-ctx.Done():
				for {
					select {
					case ev, ok := <-o.events:
						if !ok {
							return
						}
						o.apply(ev)
					default:
						return
					}
				}
			}
		}
	}()
}

// Close stops accepting events and waits for the worker to drain.
func (o *Outbox) Close() {
	o.once.Do(func() { close(o.events) })
	o.wg.Wait()
}

// Record enqueues an increment for the user and content type.
func (o *Outbox) Record(userID string, t generate.ContentType) {
	o.enqueue(Event{UserID: userID, Type: t, Delta: 1})
}

// Discard enqueues a decrement, used when an artifact is deleted.
func (o *Outbox) Discard(userID string, t generate.ContentType) {
	o.enqueue(Event{UserID: userID, Type: t, Delta: -1})
}

func (o *Outbox) enqueue(ev Event) {
	select {
	case o.events <- ev:
	default:
		o.logger.Warn("stats outbox full, dropping event",
			"user_id", ev.UserID, "type", ev.Type)
	}
}

// apply folds one event into the user's counter row for the current
// period. Failures are logged and the event dropped.
func (o *Outbox) apply(ev Event) {
	field := counterField(ev.Type)
	if field == "" || ev.UserID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	period := o.now().UTC().Format(PeriodFormat)
	current, err := o.fetch(ctx, ev.UserID, period)
	if err != nil {
		o.logger.Warn("stats update failed", "user_id", ev.UserID, "error", err)
		return
	}

	next := current[field] + ev.Delta
	if next < 0 {
		next = 0
	}

	updatedAt := o.now().UTC().Format(time.RFC3339)
	create := map[string]any{
		"user_id":    ev.UserID,
		"period":     period,
		field:        next,
		"updated_at": updatedAt,
	}
	update := map[string]any{
		field:        next,
		"updated_at": updatedAt,
	}
	filter := map[string]any{"user_id": ev.UserID, "period": period}

	if _, err := o.client.Upsert(ctx, Collection, filter, create, update); err != nil {
		o.logger.Warn("stats update failed", "user_id", ev.UserID, "error", err)
	}
}

// fetch returns the user's counters for a period, zero-valued when the
// row does not exist yet.
func (o *Outbox) fetch(ctx context.Context, userID, period string) (map[string]int, error) {
	counts := map[string]int{
		"lesson_plans":  0,
		"question_sets": 0,
		"presentations": 0,
		"notes":         0,
	}

	resp, err := docstore.NewQuery(Collection).
		Filter("user_id", userID).
		Filter("period", period).
		Fields("_docID", "lesson_plans", "question_sets", "presentations", "notes").
		Limit(1).
		Execute(ctx, o.client)
	if err != nil {
		return nil, err
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := docstore.Docs(resp, Collection)
	if len(docs) == 0 {
		return counts, nil
	}
	for field := range counts {
		counts[field] = docInt(docs[0], field)
	}
	return counts, nil
}

func docInt(doc map[string]any, key string) int {
	switch v := doc[key].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}
