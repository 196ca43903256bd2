package app

import (
	"context"
	"net/http"

	"github.com/brgarcias/apartment-gift-list/internal/auth"
	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/config"
	"github.com/brgarcias/apartment-gift-list/internal/drive"
	"github.com/brgarcias/apartment-gift-list/internal/handlers"
	"github.com/brgarcias/apartment-gift-list/internal/mail"
	"github.com/brgarcias/apartment-gift-list/internal/session"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

func setupHTTP(ctx context.Context, cfg config.Config) (http.Handler, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	dataStore := store.New(infra.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client, cfg.SessionTTL)
	checker := auth.NewChecker(sessionStore, dataStore)

	uploader, err := drive.NewUploader(
		ctx,
		cfg.GoogleClientEmail,
		cfg.GooglePrivateKey,
		cfg.GoogleDriveFolderID,
		cfg.GoogleDriveGiftFolderID,
	)
	if err != nil {
		return nil, nil, err
	}

	mailer := mail.NewMailer(cfg.SendGridAPIKey, cfg.SenderEmail, cfg.RecipientEmail)

	cookieDomain := ""
	if cfg.Production() {
		cookieDomain = cfg.CookieDomain
	}

	authHandler := handlers.NewAuthHandler(
		dataStore,
		sessionStore,
		sessionStore,
		checker,
		cfg.SessionTTL,
		cookieDomain,
	)
	giftHandler := handlers.NewGiftHandler(dataStore, dataStore, dataStore, checker, uploader)
	orderHandler := handlers.NewOrderHandler(dataStore, checker)
	userHandler := handlers.NewUserHandler(dataStore, checker)
	categoryHandler := handlers.NewCategoryHandler(dataStore)
	driveHandler := handlers.NewDriveHandler(uploader, dataStore)
	notifyHandler := handlers.NewNotifyHandler(checker, mailer)

	// ----------------------------
	// Route table
	// ----------------------------

	routes := bff.RouteTable{
		{Pattern: "/gifts", Methods: map[string]bff.Handler{
			http.MethodGet: giftHandler.List,
		}},
		// Literal patterns must come before wildcard siblings of the same
		// length: matching is first-match on the pattern, method is checked
		// after.
		{Pattern: "/gifts/create", Methods: map[string]bff.Handler{
			http.MethodPost: giftHandler.Create,
		}},
		{Pattern: "/gifts/:id", Methods: map[string]bff.Handler{
			http.MethodGet: giftHandler.GetByID,
		}},
		{Pattern: "/gifts/:id/status", Methods: map[string]bff.Handler{
			http.MethodPatch: giftHandler.UpdateStatus,
		}},
		{Pattern: "/gifts/update/:id", Methods: map[string]bff.Handler{
			http.MethodPatch: giftHandler.Update,
		}},
		{Pattern: "/gifts/delete/:id", Methods: map[string]bff.Handler{
			http.MethodDelete: giftHandler.Delete,
		}},
		{Pattern: "/orders", Methods: map[string]bff.Handler{
			http.MethodGet: orderHandler.List,
		}},
		{Pattern: "/orders/:id", Methods: map[string]bff.Handler{
			http.MethodGet: orderHandler.GetByID,
		}},
		{Pattern: "/orders/user/:id", Methods: map[string]bff.Handler{
			http.MethodGet: orderHandler.ByUser,
		}},
		{Pattern: "/orders/delete/:id", Methods: map[string]bff.Handler{
			http.MethodDelete: orderHandler.Delete,
		}},
		{Pattern: "/users", Methods: map[string]bff.Handler{
			http.MethodGet: userHandler.List,
		}},
		{Pattern: "/users/:id", Methods: map[string]bff.Handler{
			http.MethodGet: userHandler.GetByID,
		}},
		{Pattern: "/users/update/:id", Methods: map[string]bff.Handler{
			http.MethodPatch: userHandler.Update,
		}},
		{Pattern: "/users/delete/:id", Methods: map[string]bff.Handler{
			http.MethodDelete: userHandler.Delete,
		}},
		{Pattern: "/categories", Methods: map[string]bff.Handler{
			http.MethodGet: categoryHandler.List,
		}},
		{Pattern: "/auth/signup", Methods: map[string]bff.Handler{
			http.MethodPost: authHandler.Signup,
		}},
		{Pattern: "/auth/signin", Methods: map[string]bff.Handler{
			http.MethodPost: authHandler.Signin,
		}},
		{Pattern: "/auth/signout", Methods: map[string]bff.Handler{
			http.MethodPost: authHandler.Signout,
		}},
		{Pattern: "/auth/check", Methods: map[string]bff.Handler{
			http.MethodGet: authHandler.Check,
		}},
		{Pattern: "/auth/users", Methods: map[string]bff.Handler{
			http.MethodGet: authHandler.AuthenticatedUser,
		}},
		{Pattern: "/drive/upload/:id", Methods: map[string]bff.Handler{
			http.MethodPost: driveHandler.Upload,
		}},
		{Pattern: "/notify/purchase", Methods: map[string]bff.Handler{
			http.MethodPost: notifyHandler.Purchase,
		}},
	}

	dispatcher := bff.NewDispatcher(
		bff.RequestID(),
		bff.RequestLogging(),
		bff.CORS(cfg.AllowedOrigin),
		bff.RouteMiddleware(routes, cfg.BFFMountPath),
	)

	// ----------------------------
	// Server mux
	// ----------------------------

	mux := http.NewServeMux()

	mux.Handle(cfg.BFFMountPath+"/", dispatcher)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return mux, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
