// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"estate-portal/internal/config"
	"estate-portal/internal/db"
	agentHandler "estate-portal/internal/handlers/agent"
	"estate-portal/internal/handlers/listing"
	notifyHandler "estate-portal/internal/handlers/notification"
	propertyHandler "estate-portal/internal/handlers/property"
	referralHandler "estate-portal/internal/handlers/referral"
	savedViewHandler "estate-portal/internal/handlers/savedview"
	scheduleHandler "estate-portal/internal/handlers/schedule"
	sessionHandler "estate-portal/internal/handlers/session"
	wsHandler "estate-portal/internal/handlers/websocket"
	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/jwt"
	"estate-portal/internal/pkg/price"
	"estate-portal/internal/pkg/session"
	"estate-portal/internal/repository/postgres"
	agentUsecase "estate-portal/internal/service/agent"
	listingUsecase "estate-portal/internal/service/listing"
	notifyUsecase "estate-portal/internal/service/notification"
	propertyUsecase "estate-portal/internal/service/property"
	referralUsecase "estate-portal/internal/service/referral"
	savedViewUsecase "estate-portal/internal/service/savedview"
	scheduleUsecase "estate-portal/internal/service/schedule"
	"estate-portal/internal/upstream"
	"estate-portal/internal/websocket"
	wsHandlers "estate-portal/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New()}
}

// Runtime is everything Wire builds besides the routes.
type Runtime struct {
	Hub   *websocket.Hub
	Views listingUsecase.Group
}

// Start connects the stores, serves HTTP and blocks until ctx is done,
// then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	// ----- Logger -----
	logger, err := newLogger(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Redis -----
	redisClient, err := db.ConnectRedis(db.RedisConfig{
		ClusterMode: s.cfg.RedisCluster,
		Addresses:   s.cfg.RedisAddrs,
		Password:    s.cfg.RedisPass,
		DB:          s.cfg.RedisDB,
		PoolSize:    10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info("connected to redis", zap.Strings("addrs", s.cfg.RedisAddrs), zap.Bool("cluster", s.cfg.RedisCluster))

	// ----- PostgreSQL (saved views) -----
	var repo savedViewUsecase.Repository
	if s.cfg.DatabaseURL != "" {
		conn, err := db.ConnectDB(db.PostgresConfig{
			URL:          s.cfg.DatabaseURL,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			ConnMaxIdle:  5 * time.Minute,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer conn.Close()
		if err := db.Migrate(ctx, conn); err != nil {
			return err
		}
		repo = postgres.NewSavedViewRepository(postgres.NewDB(conn))
		logger.Info("connected to postgres")
	} else {
		logger.Warn("DATABASE_URL not set, saved views are disabled")
	}

	// ----- Token inspection -----
	var inspector *jwt.Inspector
	if s.cfg.UpstreamJWTPublicKeyPath != "" {
		pub, err := jwt.LoadPublicKey(s.cfg.UpstreamJWTPublicKeyPath)
		if err != nil {
			return fmt.Errorf("failed to load upstream JWT public key: %w", err)
		}
		inspector = jwt.NewInspector(pub)
	} else {
		inspector = jwt.NewInspector(nil)
	}

	handlers, rt, err := Wire(s.cfg, logger, redisClient, inspector, repo)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go rt.Hub.Run(runCtx)
	go rt.Views.RunSweeper(runCtx, s.cfg.SweepInterval, logger)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RequestID(),
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server running on %s", s.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

// Wire builds the services and handlers over the given stores. A nil repo
// disables saved views.
func Wire(cfg config.AppConfig, logger *zap.Logger, redisClient redis.UniversalClient, inspector *jwt.Inspector, repo savedViewUsecase.Repository) (*Handlers, *Runtime, error) {
	// ----- Sessions & Rate Limiter -----
	sessions := session.NewStore(redisClient, inspector, cfg.SessionTTL, logger)
	rateLimiter := session.NewRateLimiter(redisClient, cfg.RefreshRateLimit, cfg.RefreshWindow)

	// ----- Upstream -----
	client, err := upstream.NewClient(upstream.Config{
		BaseURL:   cfg.UpstreamBaseURL,
		Timeout:   cfg.UpstreamTimeout,
		PageLimit: cfg.UpstreamPageLimit,
		MaxPages:  cfg.UpstreamMaxPages,
	}, session.Chain{session.FromContext, sessions}, inspector, logger)
	if err != nil {
		return nil, nil, err
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)

	// ----- Services (Usecases) -----
	var (
		savedViews   *savedViewUsecase.SavedViewService
		viewFinder   listing.SavedViews
		viewDefaults listingUsecase.DefaultViews
	)
	if repo != nil {
		savedViews = savedViewUsecase.NewSavedViewService(repo, logger)
		viewFinder = savedViews
		viewDefaults = savedViews
	}

	listCfg := listingUsecase.Config{
		PageSize:    cfg.DefaultPageSize,
		MaxPageSize: cfg.MaxPageSize,
		Timeout:     cfg.UpstreamTimeout,
		IdleTTL:     cfg.ViewIdleTTL,
		Defaults:    viewDefaults,
		Publish:     hub.PublishCollectionEvent,
		Logger:      logger,
	}

	agentService := agentUsecase.NewAgentService(client, listCfg)
	propertyService := propertyUsecase.NewPropertyService(client, listCfg, price.NewFormatter(cfg.CurrencySymbol))
	notifService := notifyUsecase.NewNotificationService(client, listCfg, hub)
	scheduleService := scheduleUsecase.NewScheduleService(client, listCfg)
	referralService := referralUsecase.NewReferralService(client, listCfg)

	views := listingUsecase.Group{
		agentService,
		propertyService.Properties(),
		propertyService.SubProperties(),
		notifService,
		scheduleService,
		referralService,
	}

	// Register WebSocket handlers
	if err := hub.RegisterHandler(wsHandlers.NewNotificationHandler(notifService)); err != nil {
		return nil, nil, err
	}

	// ----- Handlers -----
	handlers := &Handlers{
		SessionHandler:  sessionHandler.NewSessionHandler(sessions, views, hub, logger),
		AgentHandler:    agentHandler.NewAgentHandler(agentService, viewFinder),
		PropertyHandler: propertyHandler.NewPropertyHandler(propertyService, viewFinder, logger),
		NotifHandler:    notifyHandler.NewNotificationHandler(notifService, viewFinder),
		ScheduleHandler: scheduleHandler.NewScheduleHandler(scheduleService, viewFinder),
		ReferralHandler: referralHandler.NewReferralHandler(referralService, viewFinder),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, cfg.CORSOrigins, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(sessions, inspector, logger),
		RefreshLimit:    middleware.RateLimit(rateLimiter, "refresh", logger),
	}
	if savedViews != nil {
		handlers.SavedViewHandler = savedViewHandler.NewSavedViewHandler(savedViews)
	}

	return handlers, &Runtime{Hub: hub, Views: views}, nil
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
