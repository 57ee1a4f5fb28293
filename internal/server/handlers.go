package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/renderer"
	"github.com/conneroisu/smartedit/internal/types"
	"github.com/conneroisu/smartedit/internal/version"
	"github.com/go-chi/chi/v5"
)

var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// editRequest is the body of POST /api/documents/{id}/edits and /resolve.
type editRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Input   string `json:"input,omitempty"`
}

type documentResponse struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as JSON with a status matching its kind.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, input string) {
	s.errors.Handle(r.Context(), err)

	resp := errorResponse{
		Error:   err.Error(),
		Code:    errors.CodeOf(err),
		Message: errors.UserMessage(err),
	}
	if stderrors.Is(err, errors.ErrUnresolvedIntent) {
		resp.Input = input
	}
	writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrEmptyInput),
		stderrors.Is(err, errors.ErrUnresolvedIntent),
		stderrors.Is(err, errors.ErrParseFailure):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrDocumentNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrTargetNotFound):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func validDocumentID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !documentIDPattern.MatchString(chi.URLParam(r, "id")) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "invalid document id",
				Code:    errors.ErrCodeInvalidInput,
				Message: "Document ids may contain letters, digits, dot, dash and underscore.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// session looks up the document named by the id URL parameter, writing a
// 404 when it is not open.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *editor.Session, bool) {
	id := chi.URLParam(r, "id")
	session, ok := s.workspace.Get(id)
	if !ok {
		s.writeError(w, r, errors.NewDocumentNotFoundError(id), "")
		return id, nil, false
	}
	return id, session, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"documents": s.workspace.Len(),
		"clients":   s.hub.Clients(),
	})
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tokens)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workspace.List())
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{ID: id, HTML: session.HTML()})
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeError(w, r, errors.NewIOError(errors.ErrCodeInternalError, "failed to read document", err), "")
		return
	}

	session, created := s.workspace.Open(r.Context(), id, string(body))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"id":         id,
		"components": len(session.Components()),
		"created":    created,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.workspace.Remove(id) {
		s.writeError(w, r, errors.NewDocumentNotFoundError(id), "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	_, session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Components().Sorted())
}

func (s *Server) decodeEdit(w http.ResponseWriter, r *http.Request) (editRequest, bool) {
	var req editRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   err.Error(),
			Code:    errors.ErrCodeInvalidInput,
			Message: `Request body must be JSON like {"text": "make the header bigger"}.`,
		})
		return req, false
	}
	return req, true
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	_, session, ok := s.session(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeEdit(w, r)
	if !ok {
		return
	}

	result, err := session.Submit(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err, req.Text)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	_, session, ok := s.session(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeEdit(w, r)
	if !ok {
		return
	}

	editIntent, err := session.Resolve(req.Text)
	if err != nil {
		s.writeError(w, r, err, req.Text)
		return
	}
	writeJSON(w, http.StatusOK, editIntent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_, session, ok := s.session(w, r)
	if !ok {
		return
	}
	records := session.History()
	if records == nil {
		records = []types.EditRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	_, session, ok := s.session(w, r)
	if !ok {
		return
	}

	md, err := s.exporter.Markdown(session.HTML(), r.URL.Query().Get("domain"))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, md)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !documentIDPattern.MatchString(id) {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}
	session, ok := s.workspace.Get(id)
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	page := renderer.PreviewPage{
		DocumentID: id,
		HTML:       session.HTML(),
		Components: session.Components().Sorted(),
		Tokens:     session.Tokens(),
		History:    session.History(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Page(page).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "failed to render preview", "document", id)
	}
}
