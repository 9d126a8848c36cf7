package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/visitor-register/internal/apperr"
	"github.com/evcraddock/visitor-register/internal/feedback"
	"github.com/evcraddock/visitor-register/internal/prereg"
	"github.com/evcraddock/visitor-register/internal/qr"
	"github.com/evcraddock/visitor-register/internal/visitor"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []apperr.FieldViolation `json:"fields,omitempty"`
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, errorResponse{Error: msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError maps a service error to its status code and JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.HTTPStatus(err)

	resp := errorResponse{Error: "internal error"}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindStorage, apperr.KindNotification:
			resp.Error = appErr.Error()
		default:
			resp.Error = appErr.Message
		}
		resp.Fields = appErr.Fields
	}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	apiJSON(w, resp, code)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
// It writes a 400 response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		apiError(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, "invalid pre-registration ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

type visitorResponse struct {
	Message string           `json:"message"`
	Visitor *visitor.Visitor `json:"visitor,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// apiCheckIn handles POST /api/checkin.
func (s *Server) apiCheckIn(w http.ResponseWriter, r *http.Request) {
	var req visitor.CheckInInput
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := s.visitors.CheckIn(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.CheckIns.Inc()

	apiJSON(w, visitorResponse{Message: "Visitor checked in successfully!", Visitor: v}, http.StatusOK)
}

// apiCheckOut handles POST /api/checkout.
func (s *Server) apiCheckOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact string `json:"contact"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := s.visitors.CheckOut(r.Context(), req.Contact)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.CheckOuts.Inc()

	apiJSON(w, visitorResponse{Message: "Visitor checked out successfully!", Visitor: v}, http.StatusOK)
}

// apiHistory handles GET /api/history?search=.
func (s *Server) apiHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.visitors.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	apiJSON(w, map[string]interface{}{"visitors": entries}, http.StatusOK)
}

// apiStats handles GET /api/stats.
func (s *Server) apiStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.visitors.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	apiJSON(w, stats, http.StatusOK)
}

// apiFeedback handles POST /api/feedback.
func (s *Server) apiFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedback.Input
	if !decodeJSON(w, r, &req) {
		return
	}

	// A notification failure still means the feedback was stored.
	_, err := s.feedback.Submit(r.Context(), req)
	if err == nil || apperr.Is(err, apperr.KindNotification) {
		s.metrics.Feedback.WithLabelValues(req.Type).Inc()
		s.metrics.NotificationResult(err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	apiJSON(w, messageResponse{Message: "Feedback submitted successfully!"}, http.StatusOK)
}

// apiGenerateQR handles POST /api/generate-qr.
func (s *Server) apiGenerateQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact string `json:"contact"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Contact) == "" {
		apiError(w, "Contact is required", http.StatusBadRequest)
		return
	}

	png, err := qr.Encode(qr.PreregistrationURL(s.config.BaseURL, req.Contact))
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "QR code generated", "contact", req.Contact)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.ErrorContext(r.Context(), "writing QR code", "error", err)
	}
}

// apiExport handles GET /api/export. The CSV is written to the export
// directory and then sent as an attachment.
func (s *Server) apiExport(w http.ResponseWriter, r *http.Request) {
	path, err := s.visitors.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, r, apperr.Storage("Export failed", err))
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.ErrorContext(r.Context(), "closing export file", "error", cerr)
		}
	}()
	s.metrics.Exports.Inc()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="visitor_logs.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		slog.ErrorContext(r.Context(), "sending export", "error", err)
	}
}

// apiPreregister handles POST /api/preregister.
func (s *Server) apiPreregister(w http.ResponseWriter, r *http.Request) {
	var req prereg.SubmitInput
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := s.preregs.Submit(r.Context(), req)
	if err == nil || apperr.Is(err, apperr.KindNotification) {
		s.metrics.Preregs.Inc()
		s.metrics.NotificationResult(err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	apiJSON(w, messageResponse{Message: "Pre-registration submitted! Await admin approval."}, http.StatusOK)
}

// apiListPreregistrations handles GET /api/preregistrations.
func (s *Server) apiListPreregistrations(w http.ResponseWriter, r *http.Request) {
	preregs, err := s.preregs.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	apiJSON(w, map[string]interface{}{"preregistrations": preregs}, http.StatusOK)
}

// apiApprove handles POST /api/preregistrations/{id}/approve.
func (s *Server) apiApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := s.preregs.Approve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.PreregDecision.WithLabelValues("approved").Inc()

	apiJSON(w, visitorResponse{
		Message: fmt.Sprintf("Pre-registration approved and visitor checked in at %s.", a.CheckinTime.Format(visitor.TimeLayout)),
		Visitor: a.Visitor,
	}, http.StatusOK)
}

// apiDecline handles POST /api/preregistrations/{id}/decline.
func (s *Server) apiDecline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.preregs.Decline(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.PreregDecision.WithLabelValues("declined").Inc()

	apiJSON(w, messageResponse{Message: "Pre-registration declined."}, http.StatusOK)
}
