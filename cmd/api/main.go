// cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/loan"
	"libraryapi/internal/mail"
	"libraryapi/internal/schedule"
	"libraryapi/internal/storage"
	"libraryapi/internal/web"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Bool("postgres", cfg.DatabaseURL != "").
		Str("mail_transport", cfg.MailTransport).
		Msg("starting library api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("otlp exporter init failed")
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		otel.SetTracerProvider(tp)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	// Stores: Postgres when a database is configured, in-memory otherwise.
	var (
		bookStore book.Store
		loanStore loan.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		defer db.Close()
		bookStore = book.NewPostgresStore(db)
		loanStore = loan.NewPostgresStore(db)
	} else {
		memBooks := book.NewMemoryStore()
		bookStore = memBooks
		loanStore = loan.NewMemoryStore(memBooks)
		log.Warn().Msg("no DATABASE_URL set, using in-memory stores")
	}

	bookService := book.NewService(bookStore, log.Logger)
	loanService := loan.NewService(loanStore, log.Logger)

	mailer, mailerClose := buildMailer(cfg)
	defer mailerClose()

	sched := schedule.NewScheduler(log.Logger)
	notifier := schedule.NewOverdueNotifier(loanService, mailer, cfg.MailSubject, cfg.MailBody, log.Logger)
	if err := sched.Add("overdue-loans", cfg.OverdueCron, notifier.Run); err != nil {
		log.Fatal().Err(err).Msg("scheduler setup failed")
	}
	sched.Start()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(web.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Route("/api/books", book.NewHandler(bookService).Routes)
	router.Route("/api/loans", loan.NewHandler(loanService, bookService).Routes)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: cors.AllowAll().Handler(router),
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Warn().Msg("shutting down...")

	sched.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// buildMailer picks the notification transport and guards it with a
// circuit breaker. The returned func releases transport resources at
// teardown.
func buildMailer(cfg *config.Config) (mail.Service, func()) {
	switch cfg.MailTransport {
	case "smtp":
		sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		return mail.NewBreaker(sender), func() {}
	case "amqp":
		sender, err := mail.NewAMQPSender(cfg.AMQPURL, cfg.AMQPExchange, cfg.MailFrom)
		if err != nil {
			log.Fatal().Err(err).Msg("amqp init failed")
		}
		return mail.NewBreaker(sender), func() { _ = sender.Close() }
	default:
		return mail.NewBreaker(mail.NewLogSender(log.Logger)), func() {}
	}
}
