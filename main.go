package main

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barganito/barganito.api/alerts"
	"github.com/barganito/barganito.api/config"
	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/handlers"
	"github.com/barganito/barganito.api/notifiers"
)

var auth *handlers.AuthHandler

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", config.Config.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(90)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repos.NewUserRepo(db)
	alertRepo := repos.NewAlertRepo(db)
	promoRepo := repos.NewPromotionRepo(db)
	productRepo := repos.NewProductRepo(db)
	notificationRepo := repos.NewNotificationRepo(db)
	pushRepo := repos.NewPushRepo(db)
	reportRepo := repos.NewReportRepo(db)
	voteRepo := repos.NewVoteRepo(db)
	commentRepo := repos.NewCommentRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := notifiers.NewMailer(
		config.Config.SMTPHost,
		config.Config.SMTPPort,
		config.Config.SMTPFrom,
		config.Config.SMTPPassword,
		config.Config.AppBaseURL,
	)
	pushService, err := notifiers.NewPushService(ctx, logger, config.Config.FirebaseCredentials)
	if err != nil {
		slog.Error("failed to create push service", "error", err)
		os.Exit(1)
	}
	dispatcher := notifiers.NewDispatcher(
		logger, userRepo, notificationRepo, pushRepo, mailer, pushService, config.Config.AppBaseURL)

	matcher := alerts.NewMatcher(logger, alertRepo, promoRepo, notificationRepo, dispatcher)

	if config.Config.EnableExpirySweep {
		sweeper := NewSweeper(logger, promoRepo, config.Config.SweepInterval())
		go sweeper.Start(ctx)
	}

	auth = handlers.NewAuthHandler(userRepo)
	alertHandler := handlers.NewAlertHandler(alertRepo, promoRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	promotionHandler := handlers.NewPromotionHandler(promoRepo, productRepo, reportRepo, notificationRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	pushHandler := handlers.NewPushHandler(pushRepo)
	voteHandler := handlers.NewVoteHandler(voteRepo, promoRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, promoRepo)
	cronHandler := handlers.NewCronHandler(matcher, promoRepo, config.Config.CronSecret)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", public(auth.Register))
	mux.HandleFunc("POST /auth/login", public(auth.Login))

	mux.HandleFunc("GET /cron/check-alerts", public(cronHandler.CheckAlerts))
	mux.HandleFunc("GET /cron/sweep-expired", public(cronHandler.SweepExpired))

	mux.HandleFunc("POST /alerts", private(alertHandler.CreateAlert))
	mux.HandleFunc("GET /alerts", private(alertHandler.GetAlerts))
	mux.HandleFunc("DELETE /alerts/{id}", private(alertHandler.DeleteAlert))
	mux.HandleFunc("GET /alerts/matches", private(alertHandler.GetAlertMatches))

	mux.HandleFunc("GET /notifications", private(notificationHandler.GetNotifications))
	mux.HandleFunc("GET /notifications/unread-count", private(notificationHandler.GetUnreadCount))
	mux.HandleFunc("POST /notifications/{id}/read", private(notificationHandler.MarkRead))
	mux.HandleFunc("POST /notifications/read-all", private(notificationHandler.MarkAllRead))
	mux.HandleFunc("GET /notification-settings", private(notificationHandler.GetSettings))
	mux.HandleFunc("PUT /notification-settings", private(notificationHandler.UpdateSettings))

	mux.HandleFunc("GET /offers", public(promotionHandler.GetOffers))
	mux.HandleFunc("GET /offers/{id}", public(promotionHandler.GetOffer))
	mux.HandleFunc("POST /offers", private(promotionHandler.SubmitOffer))
	mux.HandleFunc("POST /offers/{id}/report", private(promotionHandler.ReportOffer))
	mux.HandleFunc("POST /offers/{id}/vote", private(voteHandler.VoteOffer))
	mux.HandleFunc("GET /offers/{id}/vote", private(voteHandler.GetUserVote))
	mux.HandleFunc("GET /offers/{id}/rating", public(voteHandler.GetRating))
	mux.HandleFunc("GET /offers/{id}/comments", public(commentHandler.GetComments))
	mux.HandleFunc("POST /offers/{id}/comments", private(commentHandler.AddComment))
	mux.HandleFunc("POST /admin/offers", admin(promotionHandler.CreateOffer))
	mux.HandleFunc("PUT /admin/offers/{id}/active", admin(promotionHandler.SetOfferActive))

	mux.HandleFunc("GET /products", public(productHandler.GetProducts))
	mux.HandleFunc("GET /categories", public(productHandler.GetCategories))

	mux.HandleFunc("POST /push/subscriptions", private(pushHandler.Subscribe))
	mux.HandleFunc("DELETE /push/subscriptions/{token}", private(pushHandler.Unsubscribe))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		if err := db.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
		os.Exit(0)
	}()

	slog.Info("Starting server", "port", config.Config.Port)
	err = http.ListenAndServe(":"+config.Config.Port, withCORS(mux))
	if err != nil {
		slog.Error("failed to start server", "error", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func private(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := auth.GetUser(r.Header.Get("Authorization"))
		if result.Code != http.StatusOK {
			slog.Debug("unauthorized request", "path", r.URL.Path)
			writeResult(w, result)
			return
		}

		user := result.Body.(data.User)
		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)

		public(handler)(w, r.WithContext(ctx))
	}
}

func admin(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := auth.GetUser(r.Header.Get("Authorization"))
		if result.Code != http.StatusOK {
			writeResult(w, result)
			return
		}

		user := result.Body.(data.User)
		if !user.IsAdmin {
			writeResult(w, handlers.Forbidden("Admin access required."))
			return
		}

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		public(handler)(w, r.WithContext(ctx))
	}
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError && res.Error != nil {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
