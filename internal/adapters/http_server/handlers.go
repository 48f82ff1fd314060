// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"property_reviews/internal/app"
	"property_reviews/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	A *app.ApprovalService
	P *app.PlaceReviewsService
}

type errorBody struct {
	Status   string `json:"status"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
	Raw      string `json:"raw,omitempty"`
	Upstream any    `json:"upstream,omitempty"`
	Detail   any    `json:"detail,omitempty"`
}

type hostawayBody struct {
	Status      string                  `json:"status"`
	Mode        string                  `json:"mode"`
	Endpoint    string                  `json:"endpoint"`
	Listings    domain.OverlaidListings `json:"listings"`
	Meta        domain.Meta             `json:"meta"`
	Persistence string                  `json:"persistence"`
}

type approvalsBody struct {
	ApprovedReviewIDs []string `json:"approvedReviewIds"`
	Persistence       string   `json:"persistence"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/health", h.health)
	s.mux.Get("/api/reviews/hostaway", h.hostawayReviews)
	s.mux.Get("/api/reviews/google", h.googleReviews)

	s.mux.Get("/api/reviews/approvals", h.listApprovals)
	s.mux.Post("/api/reviews/approvals/{id}", h.approve)
	s.mux.Delete("/api/reviews/approvals/{id}", h.unapprove)
	// no id segment: rejected before the store is touched
	for _, p := range []string{"/api/reviews/approvals", "/api/reviews/approvals/"} {
		s.mux.Post(p, h.missingID)
		s.mux.Delete(p, h.missingID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Status: "error", Message: msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) hostawayReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.PropertyReviews(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("property reviews failed")
		body := errorBody{Status: "error", Message: err.Error()}
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			body.Detail = ue.Upstream
			if body.Detail == nil && ue.Detail != "" {
				body.Detail = ue.Detail
			}
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	etag, body := calcETagAndBody(hostawayBody{
		Status:      "success",
		Mode:        out.Mode,
		Endpoint:    out.Endpoint,
		Listings:    out.Listings,
		Meta:        out.Meta,
		Persistence: out.Persistence,
	})
	if body == nil {
		writeError(w, http.StatusInternalServerError, "failed to encode reviews")
		return
	}
	// approval state is part of the body, so an unchanged ETag means unchanged approvals too
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write hostaway body")
	}
}

func (h *Handlers) googleReviews(w http.ResponseWriter, r *http.Request) {
	placeID := r.URL.Query().Get("placeId")
	if placeID == "" {
		placeID = r.URL.Query().Get("place_id")
	}

	out, err := h.P.Fetch(r.Context(), placeID)
	if err != nil {
		var ue *domain.UpstreamError
		if !errors.As(err, &ue) {
			ue = &domain.UpstreamError{Code: "error", Message: err.Error()}
		}
		status := http.StatusBadGateway
		if ue.Code == domain.CodeNoAPIKey || ue.Code == domain.CodeMissingPlaceID {
			status = http.StatusBadRequest
		}
		log.Warn().Str("code", ue.Code).Str("place_id", placeID).Int("upstream_status", ue.HTTPStatus).Msg("place reviews failed")
		body := errorBody{Status: "error", Code: ue.Code, Message: ue.Message, Raw: ue.Raw, Upstream: ue.Upstream}
		if ue.Detail != "" {
			body.Detail = ue.Detail
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listApprovals(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Q.Approvals(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load approvals failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, approvalsBody{ApprovedReviewIDs: snap.Clone().ApprovedReviewIDs, Persistence: h.Q.Persistence()})
}

func (h *Handlers) approve(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.A.Approve)
}

func (h *Handlers) unapprove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.A.Unapprove)
}

func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (domain.ApprovalSnapshot, error)) {
	snap, err := op(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrMissingID) {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("method", r.Method).Msg("approval mutation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, approvalsBody{ApprovedReviewIDs: snap.Clone().ApprovedReviewIDs, Persistence: h.A.Persistence()})
}

func (h *Handlers) missingID(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusBadRequest, "Missing id")
}
