package http

import (
	"net/http"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	appointmentHandler   *handler.AppointmentHandler
	availabilityHandler  *handler.AvailabilityHandler
	doctorHandler        *handler.DoctorHandler
	medicalReportHandler *handler.MedicalReportHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	availabilityHandler *handler.AvailabilityHandler,
	doctorHandler *handler.DoctorHandler,
	medicalReportHandler *handler.MedicalReportHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		appointmentHandler:   appointmentHandler,
		availabilityHandler:  availabilityHandler,
		doctorHandler:        doctorHandler,
		medicalReportHandler: medicalReportHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

// allow wraps h so only the given roles reach it
func allow(h http.HandlerFunc, roles ...entity.Role) http.Handler {
	return middleware.RequireRole(roles...)(h)
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(r.corsMiddleware.Handle)

	// mux runs middleware on matched routes only, so preflights need a route of their own
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything below requires a verified token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	anyone := []entity.Role{entity.RolePatient, entity.RoleDoctor, entity.RoleAdmin}
	patient := entity.RolePatient
	doctor := entity.RoleDoctor
	admin := entity.RoleAdmin

	// Appointments. Static paths are registered before /appointments/{id}.
	appointments := r.appointmentHandler
	protected.Handle("/appointments", allow(appointments.BookAppointment, patient)).Methods(http.MethodPost)
	protected.Handle("/appointments", allow(appointments.ListByStatus, anyone...)).Methods(http.MethodGet)
	protected.Handle("/appointments/me", allow(appointments.ListMyAppointments, patient)).Methods(http.MethodGet)
	protected.Handle("/appointments/me/past", allow(appointments.ListPastAppointments, patient)).Methods(http.MethodGet)
	protected.Handle("/appointments/accepted", allow(appointments.ListAccepted, doctor, admin)).Methods(http.MethodGet)
	protected.Handle("/appointments/rejected", allow(appointments.ListRejected, doctor, admin)).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}", allow(appointments.GetAppointment, anyone...)).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}/cancel", allow(appointments.CancelAppointment, patient, doctor)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/reschedule", allow(appointments.RescheduleAppointment, patient, doctor)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/accept", allow(appointments.AcceptAppointment, doctor, admin)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/reject", allow(appointments.RejectAppointment, doctor, admin)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/complete", allow(appointments.CompleteAppointment, doctor, admin)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/no-show", allow(appointments.MarkNoShow, doctor, admin)).Methods(http.MethodPost)

	// Availability windows
	availability := r.availabilityHandler
	protected.Handle("/availability", allow(availability.AddAvailability, doctor)).Methods(http.MethodPost)
	protected.Handle("/availability/{id}", allow(availability.GetAvailability, anyone...)).Methods(http.MethodGet)
	protected.Handle("/availability/{id}", allow(availability.UpdateAvailability, doctor)).Methods(http.MethodPut)
	protected.Handle("/availability/{id}", allow(availability.RemoveAvailability, doctor)).Methods(http.MethodDelete)

	// Doctor catalog
	protected.Handle("/doctors", allow(r.doctorHandler.ListAcceptedDoctors, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/apply", allow(r.doctorHandler.SubmitApplication, doctor)).Methods(http.MethodPost)
	protected.Handle("/doctors/search/day-time", allow(availability.SearchByDayAndTime, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/search/specialty", allow(availability.SearchBySpecialty, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/search/location", allow(availability.SearchByLocation, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/search/date", allow(availability.SearchByDate, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/{id}", allow(r.doctorHandler.GetDoctor, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/{id}/availability", allow(availability.ListByDoctor, anyone...)).Methods(http.MethodGet)
	protected.Handle("/doctors/{id}/slots", allow(availability.SlotsOn, anyone...)).Methods(http.MethodGet)

	// Medical reports
	reports := r.medicalReportHandler
	protected.Handle("/patients/{patientId}/medical-reports", allow(reports.CreateReport, doctor)).Methods(http.MethodPost)
	protected.Handle("/medical-reports", allow(reports.ListMyReports, patient)).Methods(http.MethodGet)
	protected.Handle("/medical-reports/{id}", allow(reports.GetReport, anyone...)).Methods(http.MethodGet)

	// Admin
	protected.Handle("/admin/doctors/{id}/review", allow(r.doctorHandler.ReviewApplication, admin)).Methods(http.MethodPost)
	protected.Handle("/admin/audit-logs", allow(r.auditLogHandler.GetAllAuditLogs, admin)).Methods(http.MethodGet)
	protected.Handle("/admin/audit-logs/{id}", allow(r.auditLogHandler.GetAuditLog, admin)).Methods(http.MethodGet)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
