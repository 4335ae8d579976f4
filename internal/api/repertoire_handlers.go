package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/sousa16/chesslab/internal/errors"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/rules"
)

// insertLineRequest takes moves either as a list or as one movetext string
// such as "1. e4 c5 2. Nf3".
type insertLineRequest struct {
	Moves    []string `json:"moves"`
	Line     string   `json:"line"`
	StartFEN string   `json:"start_fen"`
}

func (req insertLineRequest) moves() []string {
	if len(req.Moves) > 0 {
		return req.Moves
	}
	return rules.SplitMoves(req.Line)
}

func (s *Server) handleListRepertoires(w http.ResponseWriter, r *http.Request) {
	reps, err := s.Repertoires.ListRepertoires(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reps)
}

func (s *Server) handleCreateRepertoire(w http.ResponseWriter, r *http.Request) {
	color, err := colorParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	rep, err := s.Repertoires.CreateRepertoire(r.Context(), userFromContext(r.Context()).ID, color)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rep)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	color, err := colorParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	tree, err := s.Repertoires.GetTree(r.Context(), userFromContext(r.Context()).ID, color)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tree)
}

func (s *Server) handleInsertLine(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	color, err := colorParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req insertLineRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	moves := req.moves()
	if len(moves) == 0 {
		handleError(w, r, errors.NewValidationError("moves", "cannot be empty"))
		return
	}
	log.Debug("insert line request: moves=%d", len(moves))

	res, err := s.Repertoires.InsertLine(r.Context(), userFromContext(r.Context()).ID, color, moves, req.StartFEN)
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, res)
}

// handleImportPGN accepts raw PGN text as the request body.
func (s *Server) handleImportPGN(w http.ResponseWriter, r *http.Request) {
	color, err := colorParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("could not read body"))
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		handleError(w, r, errors.NewValidationError("pgn", "cannot be empty"))
		return
	}

	res, err := s.Imports.ImportPGN(r.Context(), userFromContext(r.Context()).ID, color, string(body))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	color, err := colorParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	from, err := intQuery(r, "from", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", s.PracticeBatchSize)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Repertoires.PracticeQueue(r.Context(), userFromContext(r.Context()).ID, color, int64(from), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Repertoires.DeleteEntry(r.Context(), userFromContext(r.Context()).ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
