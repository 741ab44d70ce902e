package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"inkbook/internal/config"
	"inkbook/internal/database"
	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/auth"
	"inkbook/internal/domain/chat"
	"inkbook/internal/domain/favorite"
	"inkbook/internal/domain/media"
	"inkbook/internal/domain/notification"
	"inkbook/internal/domain/relationship"
	"inkbook/internal/domain/search"
	"inkbook/internal/domain/studio"
	"inkbook/internal/domain/subscription"
	"inkbook/internal/domain/user"
	"inkbook/internal/middleware"
	jwtsvc "inkbook/internal/pkg/jwt"
	"inkbook/internal/pkg/mq"
	"inkbook/internal/pkg/obs"
	"inkbook/internal/pkg/payment"
	"inkbook/internal/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer("inkbook-api", cfg.OTLPEndpoint, cfg.AppEnv)
	if err != nil {
		log.Fatalf("tracer: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	models := []any{&user.User{}}
	models = append(models, artist.Models()...)
	models = append(models, studio.Models()...)
	models = append(models, chat.Models()...)
	models = append(models, subscription.Models()...)
	models = append(models, media.Models()...)
	models = append(models, notification.Models()...)
	models = append(models, favorite.Models()...)
	models = append(models, relationship.Models()...)
	if err := database.Migrate(db, models...); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store, err := storage.New(ctx, storage.Config{
		Type:         storage.Type(cfg.StorageType),
		LocalPath:    cfg.StorageLocalPath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var broker mq.EventPublisher = mq.Nop{}
	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer pub.Close()
		broker = pub
	}

	notificationService := notification.NewService(notification.NewRepository(db))
	notificationHandler := notification.NewHandler(notificationService)
	events := notification.NewEventSink(notificationService, broker)

	var checkout subscription.CheckoutProvider
	if cfg.PaymentsEnabled() {
		omise, err := payment.NewOmiseCheckout(
			cfg.OmisePublicKey,
			cfg.OmiseSecretKey,
			cfg.CheckoutSourceType,
			cfg.CheckoutReturnURI,
			cfg.CheckoutCurrency,
		)
		if err != nil {
			log.Fatalf("omise: %v", err)
		}
		checkout = omise
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	subscriptionService := subscription.NewService(subscription.NewRepository(db), checkout, events)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	artistService := artist.NewService(artist.NewRepository(db), subscriptionService)
	artistHandler := artist.NewHandler(artistService)

	authService := auth.NewService(db, userRepo, artistService, j)
	authHandler := auth.NewHandler(authService, userService)

	studioService := studio.NewService(studio.NewRepository(db), artistService, events, cfg.InvitationTTL)
	studioHandler := studio.NewHandler(studioService)

	relationshipService := relationship.NewService(relationship.NewRepository(db))
	relationshipHandler := relationship.NewHandler(relationshipService)

	hub := chat.NewHub()
	chatService := chat.NewService(chat.NewRepository(db), userService, hub, events).
		WithBlocks(relationshipService)
	chatHandler := chat.NewHandler(chatService, hub, j)

	mediaService := media.NewService(media.NewRepository(db), store, cfg.MediaPublicBaseURL, cfg.MediaMaxUpload)
	mediaHandler := media.NewHandler(mediaService)

	searchHandler := search.NewHandler(search.NewService(search.NewRepository(db)))

	favoriteHandler := favorite.NewHandler(favorite.NewService(favorite.NewRepository(db), artistService))

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	if cfg.StorageType == string(storage.TypeLocal) && strings.HasPrefix(cfg.MediaPublicBaseURL, "/") {
		r.Static(cfg.MediaPublicBaseURL, cfg.StorageLocalPath)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		artist.RegisterPublicRoutes(v1, artistHandler)
		studio.RegisterPublicRoutes(v1, studioHandler)
		subscription.RegisterPublicRoutes(v1, subscriptionHandler)
		search.RegisterPublicRoutes(v1, searchHandler)
		chat.RegisterWSRoute(v1, chatHandler)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			user.RegisterRoutes(protected, userHandler)
			studio.RegisterRoutes(protected, studioHandler)
			chat.RegisterRoutes(protected, chatHandler)
			subscription.RegisterRoutes(protected, subscriptionHandler)
			media.RegisterRoutes(protected, mediaHandler)
			notification.RegisterRoutes(protected, notificationHandler)
			favorite.RegisterRoutes(protected, favoriteHandler)
			relationship.RegisterRoutes(protected, relationshipHandler)

			artists := protected.Group("/")
			artists.Use(middleware.RequireRole(string(user.RoleArtist)))
			artist.RegisterArtistRoutes(artists, artistHandler)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
