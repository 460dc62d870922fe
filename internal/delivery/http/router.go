package http

import (
	"net/http"

	"clinic-scheduling/internal/delivery/http/handler"
	"clinic-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	statusHandler      *handler.StatusHandler
	specialtyHandler   *handler.SpecialtyHandler
	userHandler        *handler.UserHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	statusHandler *handler.StatusHandler,
	specialtyHandler *handler.SpecialtyHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		statusHandler:      statusHandler,
		specialtyHandler:   specialtyHandler,
		userHandler:        userHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Everything below requires a live access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/auth/change-password", r.authHandler.ChangePassword).Methods(http.MethodPut)

	// Appointments (role rules are enforced by the lifecycle usecase)
	protected.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.appointmentHandler.GetAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)

	// Reference data (read)
	protected.HandleFunc("/statuses", r.statusHandler.GetStatuses).Methods(http.MethodGet)
	protected.HandleFunc("/statuses/{code}", r.statusHandler.GetStatus).Methods(http.MethodGet)
	protected.HandleFunc("/specialties", r.specialtyHandler.GetSpecialties).Methods(http.MethodGet)
	protected.HandleFunc("/users", r.userHandler.GetUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", r.userHandler.GetUser).Methods(http.MethodGet)

	// Reference data (admin only)
	protected.Handle("/statuses", adminOnly(r.statusHandler.CreateStatus)).Methods(http.MethodPost)
	protected.Handle("/statuses/{code}", adminOnly(r.statusHandler.DeleteStatus)).Methods(http.MethodDelete)
	protected.Handle("/specialties", adminOnly(r.specialtyHandler.CreateSpecialty)).Methods(http.MethodPost)
	protected.Handle("/users", adminOnly(r.userHandler.CreateUser)).Methods(http.MethodPost)
	protected.Handle("/users/{id}", adminOnly(r.userHandler.DeactivateUser)).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
