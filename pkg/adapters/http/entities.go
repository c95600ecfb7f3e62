package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/umlweb/pkg/canvas"
	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/store"
)

type createdResponse struct {
	ID string `json:"id"`
}

func (s *Server) created(w http.ResponseWriter, r *http.Request, id string, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) done(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type actorRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"omitempty,oneof=person system"`
}

// AddActor handles POST /actors.
func (s *Server) AddActor(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddActor(r.Context(), domain.Actor{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        domain.ActorIcon(req.Icon),
	})
	s.created(w, r, id, err)
}

type actorPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,oneof=person system"`
}

// UpdateActor handles PATCH /actors/{id}. Absent fields keep their value.
func (s *Server) UpdateActor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor, ok := s.Store.Snapshot().Actor(id)
	if !ok {
		writeError(w, http.StatusNotFound, "actor not found")
		return
	}
	var req actorPatch
	if !decode(w, r, &req) {
		return
	}
	if req.Name != nil {
		if err := s.Store.RenameActor(r.Context(), id, *req.Name); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.Description != nil || req.Icon != nil {
		if req.Description != nil {
			actor.Description = *req.Description
		}
		if req.Icon != nil {
			actor.Icon = domain.ActorIcon(*req.Icon)
		}
		if err := s.Store.UpdateActor(r.Context(), id, actor.Description, actor.Icon); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveActor handles DELETE /actors/{id}.
func (s *Server) RemoveActor(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveActor(r.Context(), chi.URLParam(r, "id")))
}

type useCaseRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

// AddUseCase handles POST /use-cases.
func (s *Server) AddUseCase(w http.ResponseWriter, r *http.Request) {
	var req useCaseRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddUseCase(r.Context(), domain.UseCase{
		ID:               req.ID,
		Name:             req.Name,
		Description:      req.Description,
		Phrases:          domain.Phrases{},
		AlternativeFlows: []domain.AlternativeFlow{},
	})
	s.created(w, r, id, err)
}

type useCasePatch struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
}

// UpdateUseCase handles PATCH /use-cases/{id}.
func (s *Server) UpdateUseCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.Store.Snapshot().UseCase(id); !ok {
		writeError(w, http.StatusNotFound, "use case not found")
		return
	}
	var req useCasePatch
	if !decode(w, r, &req) {
		return
	}
	if req.Name != nil {
		if err := s.Store.RenameUseCase(r.Context(), id, *req.Name); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.Description != nil {
		if err := s.Store.SetUseCaseDescription(r.Context(), id, *req.Description); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveUseCase handles DELETE /use-cases/{id}.
func (s *Server) RemoveUseCase(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveUseCase(r.Context(), chi.URLParam(r, "id")))
}

type linkRequest struct {
	ID        string `json:"id"`
	ActorID   string `json:"actorId" validate:"required"`
	UseCaseID string `json:"useCaseId" validate:"required"`
}

// AddLink handles POST /links.
func (s *Server) AddLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddActorUseCaseLink(r.Context(), domain.ActorUseCaseLink{
		ID: req.ID, ActorID: req.ActorID, UseCaseID: req.UseCaseID,
	})
	s.created(w, r, id, err)
}

// RemoveLink handles DELETE /links/{id}.
func (s *Server) RemoveLink(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveActorUseCaseLink(r.Context(), chi.URLParam(r, "id")))
}

type associationRequest struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=association include extend generalization"`
}

// AddAssociation handles POST /associations.
func (s *Server) AddAssociation(w http.ResponseWriter, r *http.Request) {
	var req associationRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := s.Store.AddUseCaseAssociation(r.Context(), domain.UseCaseAssociation{
		ID: req.ID, SourceID: req.SourceID, TargetID: req.TargetID, Type: domain.AssociationType(req.Type),
	})
	s.created(w, r, id, err)
}

// RemoveAssociation handles DELETE /associations/{id}.
func (s *Server) RemoveAssociation(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.Store.RemoveUseCaseAssociation(r.Context(), chi.URLParam(r, "id")))
}

// CanvasNodes handles GET /canvas/nodes.
func (s *Server) CanvasNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, canvas.Nodes(s.Store.Snapshot()))
}

// CanvasEdges handles GET /canvas/edges.
func (s *Server) CanvasEdges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, canvas.Edges(s.Store.Snapshot()))
}

type dropRequest struct {
	Kind string  `json:"kind" validate:"required,oneof=actor use_case"`
	Name string  `json:"name" validate:"max=200"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// CanvasDrop handles POST /canvas/drop: a palette item released on the canvas.
func (s *Server) CanvasDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := canvas.Drop(r.Context(), s.Store, domain.EntityKind(req.Kind), req.Name, domain.NodePosition{X: req.X, Y: req.Y})
	s.created(w, r, id, err)
}

type connectRequest struct {
	SourceID string `json:"sourceId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

// Connect handles POST /canvas/connect.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !decode(w, r, &req) {
		return
	}
	ok, err := s.Store.Connect(r.Context(), req.SourceID, req.TargetID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": ok})
}

// SetPosition handles PUT /canvas/positions/{id}.
func (s *Server) SetPosition(w http.ResponseWriter, r *http.Request) {
	var pos domain.NodePosition
	if !decode(w, r, &pos) {
		return
	}
	s.done(w, r, s.Store.SetNodePosition(r.Context(), chi.URLParam(r, "id"), pos))
}

// GetSelection handles GET /selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Selection())
}

type focusRequest struct {
	ID string `json:"id"`
}

// Focus handles PUT /selection/focus. An empty id clears the focus.
func (s *Server) Focus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if !decode(w, r, &req) {
		return
	}
	s.Store.FocusElement(req.ID)
	writeJSON(w, http.StatusOK, s.Store.Selection())
}

// OpenInspector handles PUT /selection/inspector.
func (s *Server) OpenInspector(w http.ResponseWriter, r *http.Request) {
	var target store.InspectorTarget
	if !decode(w, r, &target) {
		return
	}
	s.Store.OpenInspector(target)
	writeJSON(w, http.StatusOK, s.Store.Selection())
}

// CloseInspector handles DELETE /selection/inspector.
func (s *Server) CloseInspector(w http.ResponseWriter, r *http.Request) {
	s.Store.CloseInspector()
	writeJSON(w, http.StatusOK, s.Store.Selection())
}
