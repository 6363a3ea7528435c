package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core"
)

// Role scopes an aggregation to the caller's portal.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type (
	// Query is handed to every Source on aggregation.
	Query struct {
		UserID string    // the caller; student sources scope their rows by it
		Since  time.Time // the caller's watermark; zero means "show everything"
	}

	// Source produces the unread events of one domain for one caller.
	// Implementations live in the domain packages and are read-only: a Source
	// must never mutate domain state (in particular unread-message counters).
	Source interface {
		Events(ctx context.Context, q Query) ([]Event, error)
	}

	// WatermarkRepository persists the per-user "last cleared" timestamp.
	// A user without a stored watermark yields the zero time, never an error.
	WatermarkRepository interface {
		GetLastCleared(ctx context.Context, userID string) (time.Time, error)
		SetLastCleared(ctx context.Context, userID string, t time.Time) error
	}

	// Service merges the per-domain event sources into a single feed.
	Service struct {
		logger     core.Logger
		watermarks WatermarkRepository
		admin      []Source
		student    []Source

		nowFunc func() time.Time // mockable
	}
)

func NewService(logger core.Logger, watermarks WatermarkRepository, admin, student []Source) *Service {
	return &Service{
		logger:     logger,
		watermarks: watermarks,
		admin:      admin,
		student:    student,
		nowFunc:    time.Now,
	}
}

// Aggregate computes the caller's current notification feed: each source is
// queried with the caller's watermark, the results are merged and sorted
// descending by Event.Time. The call is read-only and each call is a fresh
// snapshot.
//
// A failing source is logged and treated as empty so that one broken domain
// query never hides the others' events. A failing watermark read is treated
// as "no watermark" (show everything).
func (svc *Service) Aggregate(ctx context.Context, userID string, role Role) ([]Event, error) {
	since, err := svc.watermarks.GetLastCleared(ctx, userID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("reading notification watermark for user %s: %v", userID, err), err)
		since = time.Time{}
	}

	q := Query{UserID: userID, Since: since}
	events := make([]Event, 0)
	for _, src := range svc.sources(role) {
		evts, err := src.Events(ctx, q)
		if err != nil {
			svc.logger.Error(fmt.Sprintf("notification source %T failed for user %s: %v", src, userID, err), err)
			continue
		}
		events = append(events, evts...)
	}

	// newest first; stable so that sources registered first win timestamp ties
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time.After(events[j].Time) })
	return events, nil
}

// Clear advances the caller's watermark to now: every event at or before this
// instant disappears from subsequent Aggregate calls. Clearing is idempotent
// and does not touch any domain state (unread-message counters included).
func (svc *Service) Clear(ctx context.Context, userID string) error {
	if err := svc.watermarks.SetLastCleared(ctx, userID, svc.nowFunc().UTC()); err != nil {
		return errors.Wrap(err, "setting notification watermark")
	}
	return nil
}

func (svc *Service) sources(role Role) []Source {
	if role == RoleAdmin {
		return svc.admin
	}
	return svc.student
}
