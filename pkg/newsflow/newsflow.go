// Package newsflow wires the approval relay together: database, workflow-engine client, change watcher
// and HTTP routes.
package newsflow

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/config"
	"github.com/RealZimboGuy/newsflow/internal/controllers"
	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/events"
	"github.com/RealZimboGuy/newsflow/internal/migrations"
	"github.com/RealZimboGuy/newsflow/internal/n8n"
	"github.com/RealZimboGuy/newsflow/internal/repository"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"

	"github.com/lmittmann/tint"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Start loads settings, opens and migrates the database and serves the API on mux (a new one when nil).
// This call blocks until the HTTP server stops.
func Start(mux *http.ServeMux) error {
	if err := config.LoadFile(config.GetSystemSettingString(config.CONFIG_FILE)); err != nil {
		return err
	}

	databaseType := config.GetSystemSettingString(config.DATABASE_TYPE)
	if databaseType != config.DATABASE_TYPE_POSTGRES && databaseType != config.DATABASE_TYPE_MYSQL && databaseType != config.DATABASE_TYPE_SQLLITE {
		panic("NFLOW_DATABASE_TYPE must be set to one of the following values: POSTGRES, MYSQL, SQLLITE")
	}

	var db *sql.DB
	switch databaseType {
	case config.DATABASE_TYPE_POSTGRES:
		db = setupPostgresDatabase()
	case config.DATABASE_TYPE_MYSQL:
		db = setupMysqlDatabase()
	default:
		db = setupSqlLiteDatabase()
	}
	defer db.Close()

	clock := core.NewRealClock()
	approvalRepo := repository.NewApprovalRepository(db, clock)
	articleRepo := repository.NewArticleRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	workflowLogRepo := repository.NewWorkflowLogRepository(db)
	userRepo := repository.NewUserRepository(db, clock)

	client := n8n.NewClientFromSettings()
	if client.WebhookURL == "" {
		slog.Warn("NFLOW_WORKFLOW_ENGINE_WEBHOOK_URL is not set, stage notifications will fail")
	}

	broker := events.NewBroker(0)
	watcher := engine.NewChangeWatcher(approvalRepo, broker)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go watcher.Start(ctx, config.GetSystemSettingDuration(config.WATCH_INTERVAL))

	advancer := engine.NewAdvancer(client, approvalRepo, workflowLogRepo, clock)
	statusService := engine.NewStatusService(client, approvalRepo, config.GetSystemSettingInteger(config.STATUS_RECENT_LIMIT), clock)
	triggerService := engine.NewTriggerService(client, workflowLogRepo, clock)

	if mux == nil {
		mux = http.NewServeMux()
	}
	auth := controllers.NewAuthController(userRepo, config.GetSystemSettingBool(config.WEB_REQUIRE_AUTH))
	controllers.NewApprovalsController(advancer, approvalRepo, watcher, auth).RegisterRoutes(mux)
	controllers.NewStatusController(statusService, auth).RegisterRoutes(mux)
	controllers.NewTriggerController(triggerService, auth).RegisterRoutes(mux)
	controllers.NewContentController(articleRepo, newsletterRepo, workflowLogRepo, auth).RegisterRoutes(mux)
	controllers.NewStreamController(approvalRepo, broker, auth).RegisterRoutes(mux)
	controllers.NewHealthController(approvalRepo).RegisterRoutes(mux)

	addr := ":" + config.GetSystemSettingString(config.SERVER_WEB_PORT)
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		addr = v
	}
	slog.Info("Starting HTTP server", "addr", addr, "auth", auth.Enabled)
	if err := http.ListenAndServe(addr, controllers.WithCORS(mux)); err != nil {
		slog.Error("HTTP server failed", "error", err)
		return err
	}
	return nil
}

func setupPostgresDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("NFLOW_DATABASE_URL must be set when using the POSTGRES database type")
	}
	slog.Info("Running migrations", "database", "postgres")
	if err := migrations.Run("postgres", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	dbPostgres, err := sql.Open("postgres", dbURL)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbPostgres
}

func setupSqlLiteDatabase() *sql.DB {
	fileName := config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME)
	if fileName == "" {
		panic("NFLOW_DATABASE_SQLLITE_FILE_NAME must be set")
	}
	slog.Info("Using SQLite database", "file", fileName)
	if err := migrations.Run("sqllite3", "sqlite3://"+fileName); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	dbSqlLite, err := sql.Open("sqlite3", fileName)
	if err != nil {
		log.Fatalf("Failed to open SQLite DB: %v", err)
	}
	if err := dbSqlLite.Ping(); err != nil {
		log.Fatalf("Failed to ping SQLite DB: %v", err)
	}
	return dbSqlLite
}

func setupMysqlDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("NFLOW_DATABASE_URL must be set when using the MYSQL database type")
	}
	if !strings.Contains(dbURL, "parseTime=true") {
		panic("NFLOW_DATABASE_URL must contain 'parseTime=true' for MySQL")
	}
	if !strings.HasPrefix(dbURL, "mysql://") {
		panic("NFLOW_DATABASE_URL must start with 'mysql://' for MySQL")
	}
	slog.Info("Running migrations", "database", "mysql")
	if err := migrations.Run("mysql", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	//the driver wants the DSN without the scheme the migrator needs
	dbMysql, err := sql.Open("mysql", strings.Replace(dbURL, "mysql://", "", 1))
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbMysql
}

// SetupLogger installs a tint handler on stderr at the level named by NFLOW_LOG_LEVEL.
func SetupLogger() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      ParseLevel(config.GetSystemSettingString(config.LOG_LEVEL)),
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
