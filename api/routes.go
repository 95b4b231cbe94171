package main

import "net/http"

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /events", app.getEvents)
	mux.HandleFunc("POST /events", app.createEvent)
	mux.HandleFunc("GET /events/{id}", app.getEventByID)
	mux.HandleFunc("PUT /events/{id}", app.updateEvent)
	mux.HandleFunc("DELETE /events/{id}", app.deleteEvent)
	mux.HandleFunc("PATCH /events/{id}/complete", app.updateEventCompletion)

	return app.logRequests(app.enableCORS(mux))
}
