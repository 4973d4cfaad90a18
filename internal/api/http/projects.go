package http

import (
	"net/http"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
)

type noteRequest struct {
	Note string `json:"note"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	contactID, err := optionalID(r, "contact")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := repository.ProjectListOptions{ContactID: contactID, Status: domain.ProjectStatus(q.Get("status"))}
	page, err := s.services.Projects.ListProjects(r.Context(), opts, query.ParsePagination(q.Get("page"), q.Get("limit")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := decodeJSON(w, r, s.maxBodyBytes, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.services.Projects.CreateProject(r.Context(), PrincipalFromContext(r.Context()), &p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.services.Projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.ProjectPatch
	if err := decodeJSON(w, r, s.maxBodyBytes, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.services.Projects.UpdateProject(r.Context(), PrincipalFromContext(r.Context()), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) addProjectNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req noteRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.services.Projects.AddNote(r.Context(), PrincipalFromContext(r.Context()), id, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
