package service

import (
	"context"
	"errors"
	"time"

	"event-calendar-api/data/models"
	"event-calendar-api/data/repository"
)

// ErrEventNotFound marks operations referencing an event id that does not
// exist. The HTTP layer maps it to a 404; this package knows nothing about
// status codes.
var ErrEventNotFound = errors.New("event not found")

// FilterParams carries the optional filter criteria for a list query. Nil
// pointers and empty strings mean "no filter on that field".
type FilterParams struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Title       string
	Description string
	IsCompleted *bool
}

// EventService is the domain contract the HTTP layer programs against.
type EventService interface {
	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)
	GetAllEvents(ctx context.Context) ([]models.Event, error)
	GetEventByID(ctx context.Context, id int64) (models.Event, bool, error)
	UpdateEvent(ctx context.Context, id int64, e models.Event) (models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	UpdateCompletion(ctx context.Context, id int64, isCompleted bool) (models.Event, error)
	GetFilteredEvents(ctx context.Context, params FilterParams) ([]models.Event, error)
}

// CalendarService implements EventService on top of an EventRepo and is its
// sole caller.
type CalendarService struct {
	Repo repository.EventRepo
}

func New(repo repository.EventRepo) *CalendarService {
	return &CalendarService{Repo: repo}
}

// CreateEvent stores a new event and returns it with the assigned id. A
// client-supplied id is ignored.
func (s *CalendarService) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = 0
	return s.Repo.Insert(ctx, e)
}

func (s *CalendarService) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	return s.Repo.GetAll(ctx)
}

func (s *CalendarService) GetEventByID(ctx context.Context, id int64) (models.Event, bool, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateEvent replaces all mutable fields of the event at id with e's
// fields. The id in e is forced to the given id regardless of what the
// client supplied.
func (s *CalendarService) UpdateEvent(ctx context.Context, id int64, e models.Event) (models.Event, error) {
	err := s.Repo.WithinTx(ctx, func(r repository.EventRepo) error {
		exists, err := r.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}
		e.ID = id
		return r.Save(ctx, e)
	})
	if err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, id int64) error {
	return s.Repo.WithinTx(ctx, func(r repository.EventRepo) error {
		exists, err := r.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}
		return r.DeleteByID(ctx, id)
	})
}

// UpdateCompletion sets only the completion flag, preserving every other
// field, and returns the updated event.
func (s *CalendarService) UpdateCompletion(ctx context.Context, id int64, isCompleted bool) (models.Event, error) {
	var updated models.Event
	err := s.Repo.WithinTx(ctx, func(r repository.EventRepo) error {
		e, found, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrEventNotFound
		}
		e.IsCompleted = isCompleted
		if err := r.Save(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	return updated, nil
}

// GetFilteredEvents returns the events matching the conjunction of every
// supplied criterion. A start date means "starting at or after midnight of
// that day"; an end date means "ending at or before the last representable
// instant of that day".
func (s *CalendarService) GetFilteredEvents(ctx context.Context, params FilterParams) ([]models.Event, error) {
	f := repository.NewEventFilter()

	if params.StartDate != nil {
		f = f.StartingOnOrAfter(startOfDay(*params.StartDate))
	}
	if params.EndDate != nil {
		f = f.EndingOnOrBefore(endOfDay(*params.EndDate))
	}
	f = f.TitleContains(params.Title)
	f = f.DescriptionContains(params.Description)
	if params.IsCompleted != nil {
		f = f.CompletedIs(*params.IsCompleted)
	}

	return s.Repo.GetFiltered(ctx, f)
}

func startOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay is the last instant of d at the store's microsecond precision.
func endOfDay(d time.Time) time.Time {
	return startOfDay(d).AddDate(0, 0, 1).Add(-time.Microsecond)
}
