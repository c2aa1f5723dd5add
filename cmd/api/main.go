package main

import (
	"planhub/internal/config"
	"planhub/internal/db"
	"planhub/internal/handler"
	"planhub/internal/httpserver"
	"planhub/internal/mq"
	redisclient "planhub/internal/redis"
	"planhub/internal/repository"
	"planhub/internal/service"
	"planhub/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()
	denylist := redisclient.NewDenylist(rdb)

	// Init RabbitMQ publisher. The API keeps serving without it; lifecycle
	// events are best-effort.
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("MQ publisher unavailable, events disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)

	// Init Services
	var events service.EventPublisher
	if publisher != nil {
		events = publisher
	}
	authService := service.NewAuthService(userRepo, denylist, cfg.JWT.Secret, log)
	projectService := service.NewProjectService(projectRepo, taskRepo, events, log)
	taskService := service.NewTaskService(projectRepo, taskRepo, events, log)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)

	router := httpserver.NewRouter(
		authHandler,
		projectHandler,
		taskHandler,
		cfg.JWT.Secret,
		denylist,
		log,
		dbConn,
		publisher,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
