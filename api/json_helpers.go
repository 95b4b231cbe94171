package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"event-calendar-api/data/models"
)

type errorJSON struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON marshals data as the response body. Resource endpoints send the
// resource itself, not an envelope.
func (app *application) WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// write the json out
	_, err = w.Write(payload)
	return err
}

// SendErrorJSON writes the error envelope: status "fail" for client errors,
// "error" for server errors. Validation failures additionally carry a
// per-field message map.
func (app *application) SendErrorJSON(w http.ResponseWriter, statusCode int, err error) error {
	jsonRes := errorJSON{}
	if statusCode >= 500 {
		jsonRes.Status = "error"
	} else {
		jsonRes.Status = "fail"
	}

	jsonRes.Message = err.Error()

	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		jsonRes.Message = "validation failed"
		jsonRes.Fields = fieldErrs
	}

	return app.WriteJSON(w, statusCode, jsonRes)
}

func (app *application) ReadJSON(w http.ResponseWriter, r *http.Request, data interface{}) error {
	maxBytes := 1024 * 1024 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	// attempt to decode the data
	err := dec.Decode(data)
	if err != nil {
		return err
	}

	// make sure only one JSON value in payload
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
