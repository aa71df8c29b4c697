package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	investigationrepo "github.com/medekit/clinic-core/internal/investigation/repo"
	invoicerepo "github.com/medekit/clinic-core/internal/invoice/repo"
	patientrepo "github.com/medekit/clinic-core/internal/patient/repo"
	"github.com/medekit/clinic-core/internal/router"
	"github.com/medekit/clinic-core/internal/token"
	treatmentrepo "github.com/medekit/clinic-core/internal/treatment/repo"
	userrepo "github.com/medekit/clinic-core/internal/user/repo"
	"github.com/medekit/clinic-core/pkg/database"
	"github.com/medekit/clinic-core/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// best-effort: if no .env exists, continue with defaults or real env
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting clinic-core")

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// create tables on first run
	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()
	if err := ensureTables(setupCtx, sqlxDB); err != nil {
		sugar.Fatalf("ensure tables: %v", err)
	}

	// token signing secret lives for the process lifetime; restarting with
	// no AUTH_SECRET set invalidates all outstanding sessions
	tokens, err := token.NewService(token.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("token service: %v", err)
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Info("service is running; press Ctrl+C to stop")

	// mount http server
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}
	handler := router.RegisterRoutes(sugar, sqlxDB, tokens)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

// ensureTables creates all tables idempotently. Patients first: the clinical
// tables reference it.
func ensureTables(ctx context.Context, db *sqlx.DB) error {
	if err := userrepo.NewUserRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	if err := patientrepo.NewPatientRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	if err := investigationrepo.NewInvestigationRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	if err := treatmentrepo.NewTreatmentRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	return invoicerepo.NewInvoiceRepo(db).EnsureTable(ctx)
}
