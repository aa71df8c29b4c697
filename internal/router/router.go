package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/auth"
	"github.com/medekit/clinic-core/internal/investigation"
	"github.com/medekit/clinic-core/internal/invoice"
	"github.com/medekit/clinic-core/internal/patient"
	"github.com/medekit/clinic-core/internal/stats"
	"github.com/medekit/clinic-core/internal/token"
	"github.com/medekit/clinic-core/internal/treatment"
	"github.com/medekit/clinic-core/internal/user"
	"github.com/medekit/clinic-core/internal/user/entity"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers. Kept simple
// and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers on the standard library's ServeMux.
// Every clinical route runs behind the access gate with its role allowlist.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, tokens *token.Service) http.Handler {
	mux := http.NewServeMux()

	userHandler := user.NewHandler(db, logger)
	gate := auth.NewGate(tokens, userHandler.Service())
	authHandler := auth.NewHandler(gate, userHandler.Service(), logger)
	patientHandler := patient.NewHandler(db, logger)
	investigationHandler := investigation.NewHandler(db, logger)
	treatmentHandler := treatment.NewHandler(db, logger)
	invoiceHandler := invoice.NewHandler(db, logger)
	statsHandler := stats.NewHandler(db, logger)

	anyRole := gate.Require(logger)
	adminOnly := gate.Require(logger, entity.RoleAdmin)
	doctorOrAdmin := gate.Require(logger, entity.RoleDoctor, entity.RoleAdmin)
	clerkOrAdmin := gate.Require(logger, entity.RoleClerk, entity.RoleAdmin)

	guard := func(mw func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
		return mw(h)
	}

	// health
	mux.HandleFunc("GET /clinic-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth
	mux.HandleFunc("POST /clinic-api/login", authHandler.Login)
	mux.Handle("GET /clinic-api/users/me", guard(anyRole, authHandler.Me))

	// account management
	mux.Handle("POST /clinic-api/users", guard(adminOnly, userHandler.Create))
	mux.Handle("GET /clinic-api/users", guard(adminOnly, userHandler.List))
	mux.Handle("PUT /clinic-api/users/{id}/role", guard(adminOnly, userHandler.UpdateRole))
	mux.Handle("PUT /clinic-api/users/{id}/active", guard(adminOnly, userHandler.SetActive))
	mux.Handle("POST /clinic-api/users/change-password", guard(anyRole, userHandler.ChangePassword))

	// patients
	mux.Handle("POST /clinic-api/patients", guard(anyRole, patientHandler.Create))
	mux.Handle("GET /clinic-api/patients", guard(anyRole, patientHandler.List))
	mux.Handle("GET /clinic-api/patients/{id}", guard(anyRole, patientHandler.Get))
	mux.Handle("PUT /clinic-api/patients/{id}", guard(anyRole, patientHandler.Update))
	mux.Handle("DELETE /clinic-api/patients/{id}", guard(adminOnly, patientHandler.Delete))
	mux.Handle("GET /clinic-api/search/patients", guard(anyRole, patientHandler.Search))

	// investigations
	mux.Handle("POST /clinic-api/investigations", guard(anyRole, investigationHandler.Create))
	mux.Handle("GET /clinic-api/investigations/{id}", guard(anyRole, investigationHandler.Get))
	mux.Handle("PUT /clinic-api/investigations/{id}", guard(anyRole, investigationHandler.Update))
	mux.Handle("DELETE /clinic-api/investigations/{id}", guard(doctorOrAdmin, investigationHandler.Delete))
	mux.Handle("GET /clinic-api/patients/{id}/investigations", guard(anyRole, investigationHandler.ListByPatient))

	// treatments
	mux.Handle("POST /clinic-api/treatments", guard(doctorOrAdmin, treatmentHandler.Create))
	mux.Handle("GET /clinic-api/treatments/{id}", guard(anyRole, treatmentHandler.Get))
	mux.Handle("PUT /clinic-api/treatments/{id}", guard(doctorOrAdmin, treatmentHandler.Update))
	mux.Handle("DELETE /clinic-api/treatments/{id}", guard(doctorOrAdmin, treatmentHandler.Delete))
	mux.Handle("GET /clinic-api/patients/{id}/treatments", guard(anyRole, treatmentHandler.ListByPatient))

	// invoices
	mux.Handle("POST /clinic-api/invoices", guard(clerkOrAdmin, invoiceHandler.Create))
	mux.Handle("GET /clinic-api/invoices", guard(clerkOrAdmin, invoiceHandler.List))
	mux.Handle("GET /clinic-api/invoices/{id}", guard(anyRole, invoiceHandler.Get))
	mux.Handle("PUT /clinic-api/invoices/{id}/payment", guard(clerkOrAdmin, invoiceHandler.RecordPayment))
	mux.Handle("GET /clinic-api/patients/{id}/invoices", guard(anyRole, invoiceHandler.ListByPatient))

	// dashboard
	mux.Handle("GET /clinic-api/stats/dashboard", guard(anyRole, statsHandler.Dashboard))

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
