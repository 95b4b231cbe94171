package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"event-calendar-api/data/models"
	"event-calendar-api/service"

	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// getEvents serves the list endpoint. With no filter parameters it returns
// every event; with any present it returns the conjunction of the supplied
// filters. Empty-string title/description parameters count as absent.
func (app *application) getEvents(w http.ResponseWriter, r *http.Request) {
	params, filtered, err := parseFilterParams(r)
	if err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}

	var events []models.Event
	if filtered {
		events, err = app.Service.GetFilteredEvents(r.Context(), params)
	} else {
		events, err = app.Service.GetAllEvents(r.Context())
	}
	if err != nil {
		app.sendServiceError(w, err)
		return
	}

	if events == nil {
		events = []models.Event{}
	}
	app.WriteJSON(w, http.StatusOK, events)
}

func (app *application) getEventByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}

	e, found, err := app.Service.GetEventByID(r.Context(), id)
	if err != nil {
		app.sendServiceError(w, err)
		return
	}
	if !found {
		app.SendErrorJSON(w, http.StatusNotFound, notFoundErr(id))
		return
	}

	app.WriteJSON(w, http.StatusOK, e)
}

func (app *application) createEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := app.ReadJSON(w, r, &e); err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}
	if fieldErrs := models.ValidateEvent(e); fieldErrs != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	created, err := app.Service.CreateEvent(r.Context(), e)
	if err != nil {
		app.sendServiceError(w, err)
		return
	}

	app.WriteJSON(w, http.StatusCreated, created)
}

func (app *application) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}

	var e models.Event
	if err := app.ReadJSON(w, r, &e); err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}
	if fieldErrs := models.ValidateEvent(e); fieldErrs != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	updated, err := app.Service.UpdateEvent(r.Context(), id, e)
	if err != nil {
		app.sendServiceError(w, err)
		return
	}

	app.WriteJSON(w, http.StatusOK, updated)
}

func (app *application) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}

	if err := app.Service.DeleteEvent(r.Context(), id); err != nil {
		app.sendServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) updateEventCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}

	raw := r.URL.Query().Get("isCompleted")
	if raw == "" {
		app.SendErrorJSON(w, http.StatusBadRequest,
			errors.New("required parameter isCompleted is missing"))
		return
	}
	isCompleted, err := strconv.ParseBool(raw)
	if err != nil {
		app.SendErrorJSON(w, http.StatusBadRequest,
			fmt.Errorf("invalid isCompleted value %q", raw))
		return
	}

	updated, err := app.Service.UpdateCompletion(r.Context(), id, isCompleted)
	if err != nil {
		app.sendServiceError(w, err)
		return
	}

	app.WriteJSON(w, http.StatusOK, updated)
}

// parseFilterParams reads the optional filter query parameters. The second
// return value reports whether any filter was supplied, which decides
// between the all-events and filtered-events service calls.
func parseFilterParams(r *http.Request) (service.FilterParams, bool, error) {
	q := r.URL.Query()
	var params service.FilterParams
	filtered := false

	if raw := q.Get("startDate"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return params, false, fmt.Errorf("invalid startDate %q, expected YYYY-MM-DD", raw)
		}
		params.StartDate = &d
		filtered = true
	}
	if raw := q.Get("endDate"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return params, false, fmt.Errorf("invalid endDate %q, expected YYYY-MM-DD", raw)
		}
		params.EndDate = &d
		filtered = true
	}
	if title := q.Get("title"); title != "" {
		params.Title = title
		filtered = true
	}
	if description := q.Get("description"); description != "" {
		params.Description = description
		filtered = true
	}
	if raw := q.Get("isCompleted"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return params, false, fmt.Errorf("invalid isCompleted value %q", raw)
		}
		params.IsCompleted = &b
		filtered = true
	}

	return params, filtered, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid event id %q", r.PathValue("id"))
	}
	return id, nil
}

func notFoundErr(id int64) error {
	return fmt.Errorf("event not found with ID: %d", id)
}

// sendServiceError maps domain failures to status codes; anything
// unexpected becomes a generic 500 after being logged.
func (app *application) sendServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrEventNotFound) {
		app.SendErrorJSON(w, http.StatusNotFound, err)
		return
	}

	log.Errorf("unexpected error: %v", err)
	app.SendErrorJSON(w, http.StatusInternalServerError, errors.New("internal server error"))
}
