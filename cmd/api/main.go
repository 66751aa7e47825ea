package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/config"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/handler"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/migration"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/routes"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	pkgcache "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/cache"
	pkges "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/elasticsearch"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/jwt"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	pkgredis "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Footprints Backend API
// @version         1.0
// @description     Moderated, multi-language, versioned content for waypoints, media, tags and static pages
//
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// appEnv returns APP_ENV, defaulting to development
func appEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}

func main() {
	env := appEnv()
	dotenvFiles := config.LoadDotEnv(env)

	configPath := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	pkglogger.InitStructured(cfg.Server.Env, cfg.Server.LogLevel)
	pkglogger.GetLogger().Info().
		Strs("env_files", dotenvFiles).
		Str("config", configPath).
		Msg("starting")
	config.LogResolved(cfg)

	ctx := context.Background()

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db, cfg.Languages); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := middleware.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("db stats collector not registered")
		}
	}

	// Redis (optional)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("redis unavailable, continuing without cache")
			redisClient = nil
		}
	}
	cacheService := pkgcache.NewService(redisClient)

	// Elasticsearch (optional)
	var indexer service.Indexer = service.NopIndexer{}
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err := pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("elasticsearch unavailable, continuing without search feed")
		} else {
			es := service.NewESIndexer(esClient, cfg.Elasticsearch.Index)
			if x, ok := es.(*service.ESIndexer); ok {
				if err := x.EnsureIndex(ctx); err != nil {
					pkglogger.GetLogger().Warn().Err(err).Msg("search index not created")
				}
			}
			indexer = es
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)

	// Services
	deps := service.NewDeps(db, cacheService, indexer, service.RolePolicy{
		AutoVerifyRole: domain.Role(cfg.Moderation.AutoVerifyRole),
	})
	tags := service.NewTagService(deps)
	waypoints := service.NewWaypointService(deps, tags)
	media := service.NewMediaService(deps, tags)
	static := service.NewStaticContentService(deps)
	reports := service.NewReportService(deps, waypoints, media, tags, static)
	lifecycle := service.NewLifecycleService(deps, waypoints, media, tags, static)

	// Router
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.SplitOrigins(),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Language"},
		MaxAge:           86400 * time.Second,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"service": "footprints-backend",
			"time":    time.Now().Unix(),
			"cache":   cacheService.IsAvailable(),
		}
		c.JSON(http.StatusOK, status)
	})

	routes.Setup(router, routes.Handlers{
		Languages:      handler.NewLanguageHandler(deps.Languages),
		Waypoints:      handler.NewWaypointHandler(waypoints),
		Media:          handler.NewMediaHandler(media),
		Tags:           handler.NewTagHandler(tags),
		StaticContents: handler.NewStaticContentHandler(static),
		Reports:        handler.NewReportHandler(reports),
		Users:          handler.NewUserHandler(lifecycle),
	}, jwtManager, deps.Languages.ActiveCodes, middleware.EditRateLimit(redisClient, middleware.EditRateLimitConfig{
		Limit:  cfg.RateLimit.EditsPerMinute,
		Window: time.Minute,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("server listening")
	if err := router.Run(addr); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("server stopped")
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	// verified_at ordering relies on UTC timestamps
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
