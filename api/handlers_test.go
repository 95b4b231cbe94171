package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-calendar-api/data/models"
	"event-calendar-api/service"
)

// stubService lets each test pin down exactly which service calls the
// adapter is allowed to make; an unexpected call panics.
type stubService struct {
	createFn     func(ctx context.Context, e models.Event) (models.Event, error)
	getAllFn     func(ctx context.Context) ([]models.Event, error)
	getByIDFn    func(ctx context.Context, id int64) (models.Event, bool, error)
	updateFn     func(ctx context.Context, id int64, e models.Event) (models.Event, error)
	deleteFn     func(ctx context.Context, id int64) error
	completionFn func(ctx context.Context, id int64, isCompleted bool) (models.Event, error)
	filteredFn   func(ctx context.Context, params service.FilterParams) ([]models.Event, error)
}

func (s *stubService) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if s.createFn == nil {
		panic("unexpected CreateEvent call")
	}
	return s.createFn(ctx, e)
}

func (s *stubService) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	if s.getAllFn == nil {
		panic("unexpected GetAllEvents call")
	}
	return s.getAllFn(ctx)
}

func (s *stubService) GetEventByID(ctx context.Context, id int64) (models.Event, bool, error) {
	if s.getByIDFn == nil {
		panic("unexpected GetEventByID call")
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubService) UpdateEvent(ctx context.Context, id int64, e models.Event) (models.Event, error) {
	if s.updateFn == nil {
		panic("unexpected UpdateEvent call")
	}
	return s.updateFn(ctx, id, e)
}

func (s *stubService) DeleteEvent(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		panic("unexpected DeleteEvent call")
	}
	return s.deleteFn(ctx, id)
}

func (s *stubService) UpdateCompletion(ctx context.Context, id int64, isCompleted bool) (models.Event, error) {
	if s.completionFn == nil {
		panic("unexpected UpdateCompletion call")
	}
	return s.completionFn(ctx, id, isCompleted)
}

func (s *stubService) GetFilteredEvents(ctx context.Context, params service.FilterParams) ([]models.Event, error) {
	if s.filteredFn == nil {
		panic("unexpected GetFilteredEvents call")
	}
	return s.filteredFn(ctx, params)
}

func newTestApp(svc service.EventService) *application {
	return &application{
		Config: Config{
			AllowedOrigins: []string{
				"http://localhost:5173",
				"https://event-calendar-frontend.onrender.com",
			},
		},
		Service: svc,
	}
}

func doRequest(app *application, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	app.routes().ServeHTTP(w, req)
	return w
}

func sampleEvent(id int64) models.Event {
	desc := "Team"
	return models.Event{
		ID:            id,
		Title:         "Meeting",
		Description:   &desc,
		StartDateTime: models.NewLocalDateTime(time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)),
		EndDateTime:   models.NewLocalDateTime(time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC)),
		IsCompleted:   false,
	}
}

func TestGetEvents(t *testing.T) {
	t.Run("no parameters returns all events", func(t *testing.T) {
		deadline := sampleEvent(2)
		deadline.Title = "Project Deadline"
		svc := &stubService{
			getAllFn: func(ctx context.Context) ([]models.Event, error) {
				return []models.Event{sampleEvent(1), deadline}, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodGet, "/events", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var events []models.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
		require.Len(t, events, 2)
		assert.Equal(t, "Meeting", events[0].Title)
		assert.Equal(t, "Project Deadline", events[1].Title)
	})

	t.Run("filter parameters dispatch to the filtered query", func(t *testing.T) {
		var got service.FilterParams
		svc := &stubService{
			filteredFn: func(ctx context.Context, params service.FilterParams) ([]models.Event, error) {
				got = params
				return []models.Event{sampleEvent(1)}, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodGet,
			"/events?startDate=2025-07-10&title=Meeting&isCompleted=false", "")

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.StartDate)
		assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), *got.StartDate)
		assert.Nil(t, got.EndDate)
		assert.Equal(t, "Meeting", got.Title)
		require.NotNil(t, got.IsCompleted)
		assert.False(t, *got.IsCompleted)

		var events []models.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.Equal(t, int64(1), events[0].ID)
	})

	t.Run("empty-string filters are equivalent to none", func(t *testing.T) {
		svc := &stubService{
			getAllFn: func(ctx context.Context) ([]models.Event, error) {
				return []models.Event{}, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodGet, "/events?title=&description=", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("unexpected service failure yields a generic 500", func(t *testing.T) {
		svc := &stubService{
			getAllFn: func(ctx context.Context) ([]models.Event, error) {
				return nil, errors.New("connection refused")
			},
		}

		w := doRequest(newTestApp(svc), http.MethodGet, "/events", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var res errorJSON
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "internal server error", res.Message)
	})

	t.Run("malformed parameters fail with 400", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{"bad startDate", "?startDate=10.07.2025"},
			{"bad endDate", "?endDate=2025-13-40"},
			{"bad isCompleted", "?isCompleted=maybe"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doRequest(newTestApp(&stubService{}), http.MethodGet, "/events"+tt.query, "")
				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
	})
}

func TestGetEventByID(t *testing.T) {
	t.Run("returns the event", func(t *testing.T) {
		svc := &stubService{
			getByIDFn: func(ctx context.Context, id int64) (models.Event, bool, error) {
				assert.Equal(t, int64(1), id)
				return sampleEvent(1), true, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodGet, "/events/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var e models.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
		assert.Equal(t, sampleEvent(1), e)
	})

	t.Run("absent id yields 404", func(t *testing.T) {
		svc := &stubService{
			getByIDFn: func(ctx context.Context, id int64) (models.Event, bool, error) {
				return models.Event{}, false, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodGet, "/events/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-integer id yields 400", func(t *testing.T) {
		w := doRequest(newTestApp(&stubService{}), http.MethodGet, "/events/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("valid body creates and returns 201", func(t *testing.T) {
		svc := &stubService{
			createFn: func(ctx context.Context, e models.Event) (models.Event, error) {
				e.ID = 1
				return e, nil
			},
		}

		body := `{"title":"Meeting","description":"Team","startDateTime":"2025-07-10T09:00:00","endDateTime":"2025-07-10T10:00:00"}`
		w := doRequest(newTestApp(svc), http.MethodPost, "/events", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var e models.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
		assert.Equal(t, int64(1), e.ID)
		assert.Equal(t, "Meeting", e.Title)
		assert.False(t, e.IsCompleted)
		assert.Equal(t, "2025-07-10T09:00:00", e.StartDateTime.Format(models.LocalDateTimeLayout))
	})

	t.Run("blank title fails validation before the service", func(t *testing.T) {
		body := `{"title":"","startDateTime":"2025-07-10T09:00:00","endDateTime":"2025-07-10T10:00:00"}`
		w := doRequest(newTestApp(&stubService{}), http.MethodPost, "/events", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var res errorJSON
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Equal(t, "fail", res.Status)
		assert.Equal(t, "Title is mandatory and cannot be empty", res.Fields["title"])
	})

	t.Run("missing timestamps fail validation", func(t *testing.T) {
		body := `{"title":"Meeting"}`
		w := doRequest(newTestApp(&stubService{}), http.MethodPost, "/events", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var res errorJSON
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Contains(t, res.Fields, "startDateTime")
		assert.Contains(t, res.Fields, "endDateTime")
	})

	t.Run("null timestamps fail validation before the service", func(t *testing.T) {
		body := `{"title":"Meeting","startDateTime":null,"endDateTime":null}`
		w := doRequest(newTestApp(&stubService{}), http.MethodPost, "/events", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var res errorJSON
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Equal(t, "Start date and time are mandatory", res.Fields["startDateTime"])
		assert.Equal(t, "End date and time are mandatory", res.Fields["endDateTime"])
	})

	t.Run("malformed JSON fails with 400", func(t *testing.T) {
		w := doRequest(newTestApp(&stubService{}), http.MethodPost, "/events", `{"title":}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	validBody := `{"id":77,"title":"Meeting","startDateTime":"2025-07-10T09:00:00","endDateTime":"2025-07-10T10:00:00"}`

	t.Run("passes the path id to the service", func(t *testing.T) {
		svc := &stubService{
			updateFn: func(ctx context.Context, id int64, e models.Event) (models.Event, error) {
				assert.Equal(t, int64(1), id)
				e.ID = id
				return e, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodPut, "/events/1", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		var e models.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
		assert.Equal(t, int64(1), e.ID)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		svc := &stubService{
			updateFn: func(ctx context.Context, id int64, e models.Event) (models.Event, error) {
				return models.Event{}, service.ErrEventNotFound
			},
		}

		w := doRequest(newTestApp(svc), http.MethodPut, "/events/99", validBody)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid body never reaches the service", func(t *testing.T) {
		body := `{"title":"   ","startDateTime":"2025-07-10T09:00:00","endDateTime":"2025-07-10T10:00:00"}`
		w := doRequest(newTestApp(&stubService{}), http.MethodPut, "/events/1", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("deletes and returns 204 with no body", func(t *testing.T) {
		svc := &stubService{
			deleteFn: func(ctx context.Context, id int64) error {
				assert.Equal(t, int64(1), id)
				return nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodDelete, "/events/1", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		svc := &stubService{
			deleteFn: func(ctx context.Context, id int64) error {
				return service.ErrEventNotFound
			},
		}

		w := doRequest(newTestApp(svc), http.MethodDelete, "/events/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateEventCompletion(t *testing.T) {
	t.Run("sets the flag and returns the event", func(t *testing.T) {
		svc := &stubService{
			completionFn: func(ctx context.Context, id int64, isCompleted bool) (models.Event, error) {
				assert.Equal(t, int64(1), id)
				assert.True(t, isCompleted)
				e := sampleEvent(1)
				e.IsCompleted = true
				return e, nil
			},
		}

		w := doRequest(newTestApp(svc), http.MethodPatch, "/events/1/complete?isCompleted=true", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var e models.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
		assert.True(t, e.IsCompleted)
		assert.Equal(t, "Meeting", e.Title)
	})

	t.Run("missing parameter yields 400 before the service", func(t *testing.T) {
		w := doRequest(newTestApp(&stubService{}), http.MethodPatch, "/events/1/complete", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid parameter yields 400", func(t *testing.T) {
		w := doRequest(newTestApp(&stubService{}), http.MethodPatch, "/events/1/complete?isCompleted=done", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		svc := &stubService{
			completionFn: func(ctx context.Context, id int64, isCompleted bool) (models.Event, error) {
				return models.Event{}, service.ErrEventNotFound
			},
		}

		w := doRequest(newTestApp(svc), http.MethodPatch, "/events/99/complete?isCompleted=true", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
