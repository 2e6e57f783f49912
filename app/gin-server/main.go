package main

import (
	"context"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/joblinkhq/joblink/config"
	"github.com/joblinkhq/joblink/internal/api/handlers"
	"github.com/joblinkhq/joblink/internal/api/middleware"
	"github.com/joblinkhq/joblink/internal/api/routes"
	"github.com/joblinkhq/joblink/internal/cache"
	"github.com/joblinkhq/joblink/internal/logger"
	"github.com/joblinkhq/joblink/internal/payments"
	mongorepo "github.com/joblinkhq/joblink/internal/repositories/mongo"
	pgrepo "github.com/joblinkhq/joblink/internal/repositories/postgres"
	"github.com/joblinkhq/joblink/internal/services"
	"github.com/joblinkhq/joblink/internal/storage"
	"github.com/joblinkhq/joblink/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	mongoDBName := os.Getenv("MONGO_DB")
	if mongoDBName == "" {
		mongoDBName = "joblink"
	}
	mongoDB := config.MongoClient.Database(mongoDBName)

	// Blob storage
	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer gcs.Close()
		uploader = gcs
	} else {
		log.Warn("GCS_BUCKET not set; file uploads are disabled")
	}

	// Payment provider
	var provider payments.Provider
	if key := os.Getenv("STRIPE_API_KEY"); key != "" {
		provider = payments.NewStripeProvider(
			key,
			os.Getenv("PAYMENT_SUCCESS_URL"),
			os.Getenv("PAYMENT_CANCEL_URL"),
			os.Getenv("PAYMENT_CURRENCY"),
		)
	} else {
		log.Warn("STRIPE_API_KEY not set; checkout is disabled")
	}

	feeCents, _ := strconv.ParseInt(os.Getenv("PLACEMENT_FEE_CENTS"), 10, 64)

	// Repositories
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	companyRepo := pgrepo.NewCompanyRepo(config.PostgresDB)
	jobRepo := pgrepo.NewJobRepo(config.PostgresDB)
	applicationRepo := pgrepo.NewApplicationRepo(config.PostgresDB)
	notificationRepo := mongorepo.NewNotificationRepo(mongoDB)

	// Services
	redisCache := cache.NewRedisCache(config.RedisClient)
	userSvc := services.NewUserService(userRepo, uploader, os.Getenv("JWT_SECRET"))
	companySvc := services.NewCompanyService(companyRepo, uploader)
	jobSvc := services.NewJobService(jobRepo, companyRepo, redisCache)
	notificationSvc := services.NewNotificationService(notificationRepo, config.RedisClient)
	applicationSvc := services.NewApplicationService(applicationRepo, jobRepo, notificationSvc, provider, feeCents, log)

	// Notification dispatch workers
	pool := &workers.NotificationWorkerPool{
		Redis:         config.RedisClient,
		Notifications: notificationRepo,
		Logger:        log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("notification worker start error")
	}

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		User:         handlers.NewUserHandler(userSvc),
		Company:      handlers.NewCompanyHandler(companySvc),
		Job:          handlers.NewJobHandler(jobSvc),
		Application:  handlers.NewApplicationHandler(applicationSvc),
		Notification: handlers.NewNotificationHandler(notificationSvc),
		WS:           handlers.NewWSHandler(config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
