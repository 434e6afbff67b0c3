package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"EasyFinder/internal/config"
	"EasyFinder/internal/httpapi"
	"EasyFinder/internal/infrastructure/csvsource"
	"EasyFinder/internal/infrastructure/email"
	"EasyFinder/internal/infrastructure/scheduler"
	"EasyFinder/internal/infrastructure/storage"
	"EasyFinder/internal/infrastructure/telegram"
	"EasyFinder/internal/logging"
	"EasyFinder/internal/metrics"
	"EasyFinder/internal/ports"
	"EasyFinder/internal/scoring"
	"EasyFinder/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *storage.Database
	source    *csvsource.FileSource
	activity  ports.ActivityLog
	status    ports.StatusRepository
	registry  *prometheus.Registry
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New builds the application. A configured database is opened and migrated.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	if err := a.initStorage(ctx); err != nil {
		return nil, err
	}

	a.source = csvsource.NewFileSource(cfg.Leads.CSVPath, baseLogger.With("component", "csvsource"))

	outreach, err := a.buildOutreach()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:   a.source,
		Activity: a.activity,
		Outreach: outreach,
		Notifier: notifier,
		Policy:   scoring.NewPolicy(cfg.Scoring.EmailThreshold),
		Metrics:  metrics.NewLeadMetrics(a.registry),
		Logger:   baseLogger.With("component", "pipeline"),
		Workers:  cfg.Leads.Workers,
	})

	if cfg.Scheduler.Interval > 0 {
		a.scheduler = usecase.NewScheduler(
			scheduler.NewIntervalScheduler(cfg.Scheduler.Interval),
			a.pipeline,
			baseLogger.With("component", "scheduler"),
		)
	}

	return a, nil
}

func (a *Application) initStorage(ctx context.Context) error {
	if a.cfg.Database.Driver == "" {
		a.activity = storage.NewMemoryActivityLog(a.cfg.Activity.Retention)
		a.status = storage.NewMemoryStatusRepository()
		return nil
	}

	db, err := storage.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return err
	}

	a.db = db
	a.activity = storage.NewSQLActivityLog(db, a.cfg.Activity.Retention)
	a.status = storage.NewSQLStatusRepository(db)
	return nil
}

func (a *Application) buildOutreach() (ports.Outreach, error) {
	renderer, err := email.NewRenderer(a.cfg.Email.TemplatePath)
	if err != nil {
		return nil, err
	}

	emailLogger := a.logger.With("component", "email")
	var sender email.Sender
	if a.cfg.Email.Live() {
		sender = email.NewSendGridSender(email.SendGridConfig{
			APIKey:    a.cfg.Email.SendGridAPIKey,
			FromEmail: a.cfg.Email.FromEmail,
			FromName:  a.cfg.Email.FromName,
		}, emailLogger)
	} else {
		if a.cfg.Email.Mode == config.EmailModeLive {
			a.logger.Warn("live email requested without SENDGRID_API_KEY, using mock sender")
		}
		sender = email.NewMockSender(a.cfg.Email.FromEmail, emailLogger)
	}

	return email.NewNDAOutreach(renderer, sender), nil
}

// Pipeline exposes the lead pipeline.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Activity exposes the activity log.
func (a *Application) Activity() ports.ActivityLog {
	return a.activity
}

// Config returns the configuration the application was built from.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Handler builds the HTTP surface.
func (a *Application) Handler() http.Handler {
	return httpapi.NewRouter(httpapi.RouterConfig{
		Handler:        httpapi.NewHandler(a.pipeline, a.activity, a.status, a.logger.With("component", "http")),
		Logger:         a.logger.With("component", "http"),
		MetricsHandler: promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
		CORSOrigins:    a.cfg.Server.CORSOrigins,
	})
}

// Serve runs the HTTP server and the optional scheduler until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduler stop", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}

	return serveErr
}

// Close releases the database connection, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
