package http

import (
	"net/http"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/query"
)

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var division *domain.Division
	if raw := q.Get("division"); raw != "" {
		d := domain.Division(raw)
		division = &d
	}
	opts := query.ContactFilterOptions{
		Category:   q.Get("category"),
		LeadSource: q.Get("leadSource"),
		Search:     q.Get("search"),
	}

	page, err := s.services.Contacts.ListContacts(r.Context(), PrincipalFromContext(r.Context()), division, opts,
		query.ParsePagination(q.Get("page"), q.Get("limit")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	var c domain.Contact
	if err := decodeJSON(w, r, s.maxBodyBytes, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.services.Contacts.CreateContact(r.Context(), PrincipalFromContext(r.Context()), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.services.Contacts.GetContact(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.ContactPatch
	if err := decodeJSON(w, r, s.maxBodyBytes, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.services.Contacts.UpdateContact(r.Context(), PrincipalFromContext(r.Context()), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.services.Contacts.DeleteContact(r.Context(), PrincipalFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
