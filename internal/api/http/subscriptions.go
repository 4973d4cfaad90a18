package http

import (
	"net/http"

	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/query"
	"homecrm-backend/internal/repository"
)

type repairCreditRequest struct {
	Amount int32 `json:"amount"`
}

func (s *Server) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	contactID, err := optionalID(r, "contact")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := repository.SubscriptionListOptions{ContactID: contactID, Status: domain.SubscriptionStatus(q.Get("status"))}
	page, err := s.services.Subscriptions.ListSubscriptions(r.Context(), opts, query.ParsePagination(q.Get("page"), q.Get("limit")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	var in domain.NewSubscription
	if err := decodeJSON(w, r, s.maxBodyBytes, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := s.services.Subscriptions.CreateSubscription(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := s.services.Subscriptions.GetSubscription(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.SubscriptionPatch
	if err := decodeJSON(w, r, s.maxBodyBytes, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := s.services.Subscriptions.UpdateSubscription(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) recordRepairCredit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req repairCreditRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := s.services.Subscriptions.RecordRepairCredit(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) addServiceEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var entry domain.ServiceEntry
	if err := decodeJSON(w, r, s.maxBodyBytes, &entry); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := s.services.Subscriptions.AddServiceEntry(r.Context(), id, entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
