package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/telemetry/logging"
	"mercator-hq/trigon/pkg/telemetry/metrics"
	"mercator-hq/trigon/pkg/telemetry/tracing"
	"mercator-hq/trigon/pkg/triangle"

	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes bounds POST /v1/classify bodies.
const maxBodyBytes = 64 << 10

// Side is one side as text. It decodes from a JSON string or a JSON number,
// keeping the number's literal text so "3.0" and 3.0 classify the same way.
type Side string

// UnmarshalJSON accepts strings and numbers.
func (s *Side) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Side(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("side must be a string or number: %s", data)
	}
	*s = Side(num)
	return nil
}

// ClassifyRequest is the POST /v1/classify body.
type ClassifyRequest struct {
	Sides []Side `json:"sides"`
}

// ClassifyResponse is the /v1/classify answer.
type ClassifyResponse struct {
	Label triangle.Label `json:"label"`
}

// ErrorResponse is returned for 4xx and 5xx answers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ClassifyHandler serves /v1/classify.
type ClassifyHandler struct {
	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewClassifyHandler creates a ClassifyHandler. Nil arguments disable logging
// and metrics.
func NewClassifyHandler(logger *logging.Logger, collector *metrics.Collector) *ClassifyHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ClassifyHandler{
		logger:  logger.WithComponent("classify"),
		metrics: collector,
	}
}

func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var args []string
	switch r.Method {
	case http.MethodGet:
		args = queryArgs(r)
	case http.MethodPost:
		var err error
		args, err = bodyArgs(w, r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	start := time.Now()
	label := cli.Invoke(args)
	elapsed := time.Since(start)

	if h.metrics != nil {
		h.metrics.RecordClassification(metrics.SourceHTTP, label, elapsed)
	}
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(tracing.AttrArgCount.Int(len(args)), tracing.AttrLabel.String(string(label)))
	if len(args) == cli.SideCount {
		span.SetAttributes(tracing.AttrSideA.String(args[0]), tracing.AttrSideB.String(args[1]), tracing.AttrSideC.String(args[2]))
	}

	h.logger.DebugContext(r.Context(), "Classified", "args", args, "label", label)

	writeJSON(w, http.StatusOK, ClassifyResponse{Label: label})
}

// queryArgs collects a, b and c in order. A missing parameter shortens the
// argument list, which classifies as unknown error.
func queryArgs(r *http.Request) []string {
	q := r.URL.Query()
	args := make([]string, 0, cli.SideCount)
	for _, key := range []string{"a", "b", "c"} {
		if q.Has(key) {
			args = append(args, q.Get(key))
		}
	}
	return args
}

func bodyArgs(w http.ResponseWriter, r *http.Request) ([]string, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var req ClassifyRequest
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	args := make([]string, len(req.Sides))
	for i, s := range req.Sides {
		args[i] = string(s)
	}
	return args, nil
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
