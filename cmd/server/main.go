package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironhub/gym-admin/internal/api"
	"ironhub/gym-admin/internal/config"
	"ironhub/gym-admin/internal/repository/mongo"
	"ironhub/gym-admin/internal/service"
	"ironhub/gym-admin/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting gym admin server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}
	logger.Info("configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureCredentialIndexes(ctx, appDB.Collection(mongo.CredentialCollectionName))
		mongo.EnsureUserIndexes(ctx, appDB.Collection(mongo.UserCollectionName))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection(mongo.ExerciseCollectionName))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection(mongo.RoutineCollectionName))
		mongo.EnsureSagaIndexes(ctx, appDB.Collection(mongo.SagaCollectionName))
		logger.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, logger)
	if err != nil {
		logger.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	credentialRepo := mongo.NewMongoCredentialRepository(appDB)
	userRepo := mongo.NewMongoUserRepository(appDB)
	pendingRepo := mongo.NewMongoPendingUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	sagaRepo := mongo.NewMongoSagaRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(credentialRepo, userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	registrationService := service.NewRegistrationService(pendingRepo, userRepo, sagaRepo, authService, logger)
	sagaService := service.NewRegistrationSagaService(sagaRepo, pendingRepo, userRepo, authService, logger)
	userService := service.NewUserService(userRepo, pendingRepo, cfg.Registration.InviteTTL, logger)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage, logger)
	routineService := service.NewRoutineService(routineRepo, exerciseRepo, logger)
	statsService := service.NewStatsService(userRepo, pendingRepo, exerciseRepo, routineRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		registrationService,
		sagaService,
		userService,
		exerciseService,
		routineService,
		statsService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
