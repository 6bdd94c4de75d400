// Package query selects a user's tasks for listings.
package query

import (
	"context"
	"sort"
	"time"

	"github.com/tgienger/taskbot/internal/models"
	"github.com/tgienger/taskbot/internal/period"
)

// Store is the subset of the task store used for reads
type Store interface {
	ListOpenTasks(ctx context.Context, userID int64) ([]models.Task, error)
	ListTasksTouchedBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.Task, error)
}

// Engine answers task listing queries
type Engine struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates an engine resolving periods in loc
func NewEngine(store Store, loc *time.Location, now func() time.Time) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, loc: loc, now: now}
}

// Actual returns the user's tasks that are not done, in display order
func (e *Engine) Actual(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := e.store.ListOpenTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	SortForDisplay(tasks)
	return tasks, nil
}

// ForPeriod returns the user's tasks created or modified inside the named
// period, in display order. ok is false when the name is unknown; the task
// list is then empty and err is nil.
func (e *Engine) ForPeriod(ctx context.Context, userID int64, name string) (tasks []models.Task, iv period.Interval, ok bool, err error) {
	iv, ok = period.Resolve(name, e.now().In(e.loc))
	if !ok {
		return nil, iv, false, nil
	}
	tasks, err = e.store.ListTasksTouchedBetween(ctx, userID, iv.From, iv.To)
	if err != nil {
		return nil, iv, true, err
	}
	SortForDisplay(tasks)
	return tasks, iv, true, nil
}

// SortForDisplay orders tasks done, planned, doing. Tasks with the same
// status keep their relative order.
func SortForDisplay(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Status.DisplayRank() < tasks[j].Status.DisplayRank()
	})
}
