package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/umlweb/pkg/domain"
)

type phraseRequest struct {
	Text string `json:"text" validate:"required"`
}

// AddPhrase handles POST /use-cases/{id}/phrases.
func (s *Server) AddPhrase(w http.ResponseWriter, r *http.Request) {
	var req phraseRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddUseCasePhrase(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err == nil && id == "" {
		writeError(w, http.StatusNotFound, "use case not found")
		return
	}
	s.created(w, r, id, err)
}

// EditPhrase handles PUT /use-cases/{id}/phrases/{phraseID}.
func (s *Server) EditPhrase(w http.ResponseWriter, r *http.Request) {
	var req phraseRequest
	if !decode(w, r, &req) {
		return
	}
	s.done(w, r, s.Store.EditUseCasePhrase(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "phraseID"), req.Text))
}

// RemovePhrase handles DELETE /use-cases/{id}/phrases/{phraseID}.
func (s *Server) RemovePhrase(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveUseCasePhrase(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "phraseID")))
}

type alternativeFlowRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Kind           string `json:"kind" validate:"omitempty,oneof=alternative exception"`
	ParentPhraseID string `json:"parentPhraseId"`
	ReturnPhraseID string `json:"returnPhraseId"`
}

// AddAlternativeFlow handles POST /use-cases/{id}/alternative-flows.
func (s *Server) AddAlternativeFlow(w http.ResponseWriter, r *http.Request) {
	var req alternativeFlowRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddAlternativeFlow(r.Context(), chi.URLParam(r, "id"), req.Name,
		domain.FlowKind(req.Kind), req.ParentPhraseID, req.ReturnPhraseID)
	if err == nil && id == "" {
		writeError(w, http.StatusNotFound, "use case or main flow step not found")
		return
	}
	s.created(w, r, id, err)
}

type alternativeFlowPatch struct {
	Name           *string `json:"name" validate:"omitempty,max=200"`
	Kind           *string `json:"kind" validate:"omitempty,oneof=alternative exception"`
	ReturnPhraseID *string `json:"returnPhraseId"`
}

// UpdateAlternativeFlow handles PATCH /use-cases/{id}/alternative-flows/{altID}.
// An empty returnPhraseId makes the flow terminate the use case.
func (s *Server) UpdateAlternativeFlow(w http.ResponseWriter, r *http.Request) {
	var req alternativeFlowPatch
	if !decode(w, r, &req) {
		return
	}
	ctx, ucID, altID := r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "altID")
	if req.Name != nil {
		if err := s.Store.RenameAlternativeFlow(ctx, ucID, altID, *req.Name); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.Kind != nil {
		if err := s.Store.SetAlternativeFlowKind(ctx, ucID, altID, domain.FlowKind(*req.Kind)); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.ReturnPhraseID != nil {
		if err := s.Store.SetAlternativeFlowReturn(ctx, ucID, altID, *req.ReturnPhraseID); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveAlternativeFlow handles DELETE /use-cases/{id}/alternative-flows/{altID}.
func (s *Server) RemoveAlternativeFlow(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveAlternativeFlow(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "altID")))
}

// AddAlternativeFlowPhrase handles POST /use-cases/{id}/alternative-flows/{altID}/phrases.
func (s *Server) AddAlternativeFlowPhrase(w http.ResponseWriter, r *http.Request) {
	var req phraseRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddAlternativeFlowPhrase(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "altID"), req.Text)
	if err == nil && id == "" {
		writeError(w, http.StatusNotFound, "alternative flow not found")
		return
	}
	s.created(w, r, id, err)
}

// EditAlternativeFlowPhrase handles PUT .../alternative-flows/{altID}/phrases/{phraseID}.
func (s *Server) EditAlternativeFlowPhrase(w http.ResponseWriter, r *http.Request) {
	var req phraseRequest
	if !decode(w, r, &req) {
		return
	}
	s.done(w, r, s.Store.EditAlternativeFlowPhrase(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "altID"), chi.URLParam(r, "phraseID"), req.Text))
}

// RemoveAlternativeFlowPhrase handles DELETE .../alternative-flows/{altID}/phrases/{phraseID}.
func (s *Server) RemoveAlternativeFlowPhrase(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveAlternativeFlowPhrase(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "altID"), chi.URLParam(r, "phraseID")))
}
