package api

import (
	"net/http"

	"github.com/sousa16/chesslab/internal/errors"
)

type reviewRequest struct {
	Response string `json:"response"`
	Version  int64  `json:"version"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Version <= 0 {
		handleError(w, r, errors.NewValidationError("version", "must be the entry version you reviewed"))
		return
	}

	res, err := s.Reviews.Review(r.Context(), userFromContext(r.Context()).ID, id, req.Response, req.Version)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	previews, err := s.Reviews.PreviewReview(r.Context(), userFromContext(r.Context()).ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, previews)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logs, err := s.Reviews.History(r.Context(), userFromContext(r.Context()).ID, id, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, logs)
}
