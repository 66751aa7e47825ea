package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/config"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/migration"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	pkges "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/elasticsearch"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "configs/config.development.yaml", "config file path")
	reindex := flag.Bool("reindex", false, "push every visible repository to the search index after migrating")
	kinds := flag.String("kinds", "", "comma separated kinds to reindex: waypoint, media, tag (default all)")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv(os.Getenv("APP_ENV"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	pkglogger.InitStructured(cfg.Server.Env, cfg.Server.LogLevel)

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if err := migration.Run(db, cfg.Languages); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("[migrate] schema up to date")

	if !*reindex {
		return
	}
	runReindex(cfg, db, *kinds)
}

func runReindex(cfg *config.Config, db *gorm.DB, kinds string) {
	if !cfg.Elasticsearch.Enabled || len(cfg.Elasticsearch.Addresses) == 0 {
		log.Fatal("[reindex] elasticsearch is not configured")
	}
	client, err := pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
	if err != nil {
		log.Fatalf("[reindex] %v", err)
	}
	ctx := context.Background()
	indexer := service.NewESIndexer(client, cfg.Elasticsearch.Index)
	if x, ok := indexer.(*service.ESIndexer); ok {
		if err := x.EnsureIndex(ctx); err != nil {
			log.Fatalf("[reindex] create index: %v", err)
		}
	}

	deps := service.NewDeps(db, nil, indexer, nil)
	tags := service.NewTagService(deps)
	lifecycle := service.NewLifecycleService(deps,
		service.NewWaypointService(deps, tags),
		service.NewMediaService(deps, tags),
		tags,
		service.NewStaticContentService(deps),
	)

	var selected []domain.Kind
	for _, k := range strings.Split(kinds, ",") {
		if k = strings.TrimSpace(k); k != "" {
			selected = append(selected, domain.Kind(k))
		}
	}
	n, err := lifecycle.Reindex(ctx, selected...)
	if err != nil {
		log.Fatalf("[reindex] %v", err)
	}
	log.Printf("[reindex] %d documents indexed", n)
}
