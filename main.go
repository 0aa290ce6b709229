package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"findmyspot/config"
	"findmyspot/cron"
	"findmyspot/database"
	recordsRepo "findmyspot/database/repository/records"
	userRepoPkg "findmyspot/database/repository/user"
	"findmyspot/handlers"
	"findmyspot/middleware"
	"findmyspot/routes"
	"findmyspot/services/lot"
	"findmyspot/services/notification"
	"findmyspot/services/session"
	"findmyspot/services/tasks"
	"findmyspot/services/user"
	"findmyspot/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// openStore selects the record store backend.
func openStore(fb *utils.FirebaseClients) database.RecordStore {
	logger := utils.GetLogger()
	switch config.AppConfig.StoreBackend {
	case "mongo":
		client, err := database.ConnectMongo(config.AppConfig.DatabaseURL)
		if err != nil {
			logger.Fatal("main: mongo unavailable", zap.Error(err))
		}
		store, err := database.NewMongoStore(client, config.AppConfig.MongoDBName)
		if err != nil {
			logger.Fatal("main: mongo store init failed", zap.Error(err))
		}
		return store
	case "memory":
		logger.Warn("main: using in-memory record store, data is lost on restart")
		return database.NewMemoryStore()
	default:
		if fb.Database == nil {
			logger.Fatal("main: FIREBASE_DATABASE_URL is required for the firebase store")
		}
		return database.NewRTDBStore(fb.Database)
	}
}

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fb, err := utils.NewFirebaseClients(ctx)
	if err != nil {
		logger.Fatal("main: firebase init failed", zap.Error(err))
	}

	clock, err := utils.NewClock(config.AppConfig.Timezone)
	if err != nil {
		logger.Fatal("main: invalid TIMEZONE", zap.Error(err))
	}

	store := openStore(fb)

	// Redis backs the auth cache, lot status and reminder queue. Each is
	// optional and degrades to no cache, memory and no reminders.
	var cacheClient, authCache *redis.Client
	var redisClients []*redis.Client
	if config.RedisEnabled() {
		if cacheClient, err = utils.NewCacheClient(); err != nil {
			logger.Warn("main: cache redis unavailable", zap.Error(err))
		} else {
			redisClients = append(redisClients, cacheClient)
		}
		if authCache, err = utils.NewAuthCacheClient(); err != nil {
			logger.Warn("main: auth cache redis unavailable", zap.Error(err))
		} else {
			redisClients = append(redisClients, authCache)
		}
	}

	// repositories.
	eventRepo := recordsRepo.NewParkingEventRepo(store)
	userRepo := userRepoPkg.NewUserRepo(store)

	// services.
	notificationService := notification.NewDefaultNotificationService(userRepo, fb.Messaging, logger)

	sessionService := &session.DefaultSessionService{
		Events:        eventRepo,
		Users:         userRepo,
		Clock:         clock,
		Rules:         session.Rules{SameDayGrace: config.AppConfig.SessionSameDayGrace},
		SlotNo:        config.AppConfig.DefaultSlotNo,
		Timeout:       config.AppConfig.StoreTimeout,
		Notifier:      notificationService,
		OverstayAfter: config.AppConfig.OverstayReminderAfter,
		Logger:        logger,
	}
	if config.RedisEnabled() {
		queue := asynq.NewClient(cron.ReminderQueueOpt())
		defer queue.Close()
		sessionService.Reminders = tasks.NewOverstayScheduler(queue)
		cron.InitOverstayWorker(ctx, eventRepo, notificationService, logger)
	}

	profileService := &user.DefaultProfileService{
		Repo:    userRepo,
		Timeout: config.AppConfig.StoreTimeout,
		Logger:  logger,
	}

	var lotStore lot.StatusStore = lot.NewMemoryStatusStore(nil)
	if cacheClient != nil {
		lotStore = lot.NewRedisStatusStore(cacheClient)
	}
	lotHub := handlers.NewLotStatusHub()
	go lotHub.Start(ctx)
	lotService := &lot.DefaultLotService{Store: lotStore, TTL: config.AppConfig.LotStatusTTL, Live: lotHub}

	utils.StartHealthMonitor(ctx, 30*time.Second, store, redisClients)

	// handlers.
	sessionHandler := handlers.NewSessionHandler(sessionService)
	profileHandler := handlers.NewProfileHandler(profileService)
	lotHandler := handlers.NewLotHandler(lotService)

	handlerBundle := &handlers.HandlerBundle{
		AuthMiddleware:     middleware.FirebaseAuthMiddleware(fb.Auth, authCache, config.AppConfig.StoreTimeout),
		DetectorMiddleware: middleware.DetectorKeyMiddleware(config.AppConfig.DetectorAPIKey),

		GetProfileHandler:       profileHandler.GetProfileHandler,
		UpdateDriverInfoHandler: profileHandler.UpdateDriverInfoHandler,
		RegisterVehicleHandler:  profileHandler.RegisterVehicleHandler,
		UpdateFCMTokenHandler:   profileHandler.UpdateFCMTokenHandler,

		GetSessionHandler:   sessionHandler.GetSessionHandler,
		OpenSessionHandler:  sessionHandler.OpenSessionHandler,
		CloseSessionHandler: sessionHandler.CloseSessionHandler,
		RateSessionHandler:  sessionHandler.RateSessionHandler,

		ListEventsHandler:  sessionHandler.ListEventsHandler,
		DeleteEventHandler: sessionHandler.DeleteEventHandler,
		ClearEventsHandler: sessionHandler.ClearEventsHandler,

		GetLotStatusHandler:  lotHandler.GetLotStatusHandler,
		PutLotStatusHandler:  lotHandler.PutLotStatusHandler,
		LiveLotStatusHandler: lotHub.LiveLotStatusHandler,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	logger.Sugar().Info("main: server stopped gracefully")
}
