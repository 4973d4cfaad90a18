package http

import (
	"net/http"

	"homecrm-backend/internal/service"

	"github.com/gorilla/mux"
)

const defaultMaxBodyBytes = 1 << 20

type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Contacts      service.ContactService
	Subscriptions service.SubscriptionService
	Projects      service.ProjectService
}

type Server struct {
	services     Services
	resolver     IdentityResolver
	metrics      *Metrics
	maxBodyBytes int64
}

func NewServer(services Services, resolver IdentityResolver, metrics *Metrics, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Server{
		services:     services,
		resolver:     resolver,
		metrics:      metrics,
		maxBodyBytes: maxBodyBytes,
	}
}

// Router registers every API route under its policy name. metricsHandler
// is mounted at /metrics when non-nil.
func (s *Server) Router(metricsHandler http.Handler) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.requestMiddleware, s.authMiddleware)

	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/auth/bootstrap-owner", s.bootstrapOwner).Methods(http.MethodPost).Name("auth.bootstrap")
	api.HandleFunc("/auth/me", s.me).Methods(http.MethodGet).Name("auth.me")

	api.HandleFunc("/users", s.listUsers).Methods(http.MethodGet).Name("users.list")
	api.HandleFunc("/users", s.createUser).Methods(http.MethodPost).Name("users.create")
	api.HandleFunc("/users/{id:[0-9]+}", s.getUser).Methods(http.MethodGet).Name("users.get")
	api.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut).Name("users.update")
	api.HandleFunc("/users/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete).Name("users.delete")

	api.HandleFunc("/contacts", s.listContacts).Methods(http.MethodGet).Name("contacts.list")
	api.HandleFunc("/contacts", s.createContact).Methods(http.MethodPost).Name("contacts.create")
	api.HandleFunc("/contacts/{id:[0-9]+}", s.getContact).Methods(http.MethodGet).Name("contacts.get")
	api.HandleFunc("/contacts/{id:[0-9]+}", s.updateContact).Methods(http.MethodPut).Name("contacts.update")
	api.HandleFunc("/contacts/{id:[0-9]+}", s.deleteContact).Methods(http.MethodDelete).Name("contacts.delete")

	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet).Name("projects.list")
	api.HandleFunc("/projects", s.createProject).Methods(http.MethodPost).Name("projects.create")
	api.HandleFunc("/projects/{id:[0-9]+}", s.getProject).Methods(http.MethodGet).Name("projects.get")
	api.HandleFunc("/projects/{id:[0-9]+}", s.updateProject).Methods(http.MethodPut).Name("projects.update")
	api.HandleFunc("/projects/{id:[0-9]+}/notes", s.addProjectNote).Methods(http.MethodPost).Name("projects.add_note")

	api.HandleFunc("/subscriptions", s.listSubscriptions).Methods(http.MethodGet).Name("subscriptions.list")
	api.HandleFunc("/subscriptions", s.createSubscription).Methods(http.MethodPost).Name("subscriptions.create")
	api.HandleFunc("/subscriptions/{id:[0-9]+}", s.getSubscription).Methods(http.MethodGet).Name("subscriptions.get")
	api.HandleFunc("/subscriptions/{id:[0-9]+}", s.updateSubscription).Methods(http.MethodPut).Name("subscriptions.update")
	api.HandleFunc("/subscriptions/{id:[0-9]+}/repairs", s.recordRepairCredit).Methods(http.MethodPost).Name("subscriptions.record_repair")
	api.HandleFunc("/subscriptions/{id:[0-9]+}/services", s.addServiceEntry).Methods(http.MethodPost).Name("subscriptions.add_service")

	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}
	return router
}
