package app

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"example.com/taskhub/internal/config"
	httpx "example.com/taskhub/internal/handler/http"
	"example.com/taskhub/internal/repository"
	"example.com/taskhub/internal/storage/memory"
	sqlstore "example.com/taskhub/internal/storage/sql"
	"example.com/taskhub/internal/usecase"
)

// Store is what a backing implementation must provide as a whole.
type Store interface {
	repository.TaskRepository
	repository.UserRepository
}

type App struct {
	Config *config.Config
	Fiber  *fiber.App
	Store  Store
}

func New(cfg *config.Config) (*App, error) {
	var store Store
	switch cfg.Storage {
	case "sql":
		level := gormlogger.Silent
		if cfg.Debug {
			level = gormlogger.Info
		}
		db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
			Logger: gormlogger.Default.LogMode(level),
		})
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		s := sqlstore.New(db)
		if err := s.Migrate(); err != nil {
			return nil, err
		}
		store = s
	default:
		store = memory.New()
	}

	svc := usecase.NewTaskService(store, store)
	h := httpx.New(svc, store)

	f := fiber.New(fiber.Config{
		AppName:               "taskhub",
		DisableStartupMessage: true,
	})
	f.Use(recover.New())
	if cfg.Debug {
		f.Use(fiberlogger.New())
	}
	h.Register(f)

	return &App{Config: cfg, Fiber: f, Store: store}, nil
}
