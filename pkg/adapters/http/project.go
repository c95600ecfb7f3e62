package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/umlweb/internal/presentation/graph"
	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/report"
	"github.com/aretw0/umlweb/pkg/xmlcodec"
)

// GetProject handles GET /project.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

// PutProject handles PUT /project, replacing the project with a JSON snapshot.
func (s *Server) PutProject(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if !decode(w, r, &snap) {
		return
	}
	if err := s.Store.LoadProject(r.Context(), snap); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

// ResetProject handles DELETE /project.
func (s *Server) ResetProject(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Reset(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportXML handles GET /project/export. With ?compat=true the ext layer is omitted.
func (s *Server) ExportXML(w http.ResponseWriter, r *http.Request) {
	compat, _ := strconv.ParseBool(r.URL.Query().Get("compat"))
	doc := xmlcodec.Export(s.Store.Snapshot(), xmlcodec.Options{CompatOnly: compat})

	w.Header().Set("Content-Type", xmlcodec.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xmlcodec.FileName(s.now())))
	io.WriteString(w, doc)
}

// ImportXML handles POST /project/import. The document is either the raw
// request body or the "file" part of a multipart form. On failure the
// project is left untouched.
func (s *Server) ImportXML(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var src io.Reader = r.Body
	name, contentType := "", r.Header.Get("Content-Type")

	if err := r.ParseMultipartForm(maxBody); err == nil {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file")
			return
		}
		defer f.Close()
		src, name, contentType = f, hdr.Filename, hdr.Header.Get("Content-Type")
	}

	if !xmlcodec.AcceptsFile(name, contentType) {
		writeError(w, http.StatusUnsupportedMediaType, "expected an .xml file")
		return
	}

	snap, err := xmlcodec.ReadXML(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.LoadProject(r.Context(), *snap); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

// ProjectReport handles GET /project/report.
func (s *Server) ProjectReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, report.Project(s.Store.Snapshot()))
}

// UseCaseReport handles GET /use-cases/{id}/report.
func (s *Server) UseCaseReport(w http.ResponseWriter, r *http.Request) {
	md, ok := report.UseCase(s.Store.Snapshot(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "use case not found")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, md)
}

// Mermaid handles GET /project/diagram.mmd, highlighting the current selection.
func (s *Server) Mermaid(w http.ResponseWriter, r *http.Request) {
	sel := s.Store.Selection()
	overlay := &graph.Overlay{FocusedID: sel.FocusedID}
	if sel.Inspector != nil {
		overlay.InspectedID = sel.Inspector.ID
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.Store.Snapshot(), overlay))
}

// DOT handles GET /project/diagram.dot.
func (s *Server) DOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	io.WriteString(w, graph.ToDOT(s.Store.Snapshot()))
}

// SVG handles GET /project/diagram.svg.
func (s *Server) SVG(w http.ResponseWriter, r *http.Request) {
	svg, err := graph.RenderSVG(r.Context(), graph.ToDOT(s.Store.Snapshot()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}
