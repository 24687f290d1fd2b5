package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drakos74/free-cover/internal/advisor"
	"github.com/drakos74/free-cover/internal/metrics"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/drakos74/free-cover/internal/storage/checkpoint"
)

// Working is the message of the test route.
const Working = "API is working"

// Message is a plain json reply.
type Message struct {
	Message string `json:"message"`
}

// Test confirms the api is reachable.
func Test() Route {
	return Route{
		Action: Api,
		Path:   "test",
		Method: GET,
		Exec: func(r *http.Request) ([]byte, int, error) {
			b, err := json.Marshal(Message{Message: Working})
			return b, http.StatusOK, err
		},
	}
}

// Ready reports if the model artifacts can be loaded.
func Ready(a *advisor.Advisor) Route {
	return Route{
		Action: Api,
		Path:   "ready",
		Method: GET,
		Exec: func(r *http.Request) ([]byte, int, error) {
			if _, err := a.Artifacts(); err != nil {
				return nil, http.StatusServiceUnavailable, err
			}
			b, err := json.Marshal(Message{Message: "model loaded"})
			return b, http.StatusOK, err
		},
	}
}

// Predict returns the policy recommendation for the customer in the request body.
func Predict(a *advisor.Advisor, m *metrics.Metrics, debug bool) Route {
	return Route{
		Action:  Api,
		Path:    "predict",
		Method:  POST,
		Limited: true,
		Exec: func(r *http.Request) ([]byte, int, error) {
			var data model.CustomerData
			if err := JsonRead(r, debug, &data); err != nil {
				m.Failure(reason(err))
				return nil, http.StatusBadRequest, err
			}
			rec, err := a.MakePrediction(data)
			if err != nil {
				m.Failure(reason(err))
				return nil, Status(err), err
			}
			m.Prediction(string(rec.Policy), rec.Values.Premium)
			b, err := json.Marshal(rec)
			return b, http.StatusOK, err
		},
	}
}

// Status maps a prediction error to the http status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, checkpoint.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrMissingFields),
		errors.Is(err, model.ErrInvalidCustomer),
		errors.Is(err, preprocess.ErrUnknownCategory):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func reason(err error) string {
	switch {
	case errors.Is(err, checkpoint.ErrNotLoaded):
		return "not_loaded"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, model.ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, model.ErrInvalidCustomer):
		return "invalid_customer"
	case errors.Is(err, preprocess.ErrUnknownCategory):
		return "unknown_category"
	}
	return "error"
}
