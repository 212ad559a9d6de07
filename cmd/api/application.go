package main

import (
	"log/slog"
	"sync"

	"movielib/proj/internal/api/tasks"
	"movielib/proj/internal/config"
	"movielib/proj/internal/lib/decoder"
	"movielib/proj/internal/services"
)

type Application struct {
	cfg      *config.Config
	log      *slog.Logger
	Http     *Http
	services *services.Services
	decoder  *decoder.URLDecoder
	bgTasks  *tasks.BackgroundTasks

	done      chan struct{}
	closeOnce sync.Once
}

func NewApplication(cfg *config.Config, log *slog.Logger, services *services.Services, bgTasks *tasks.BackgroundTasks) *Application {
	return &Application{
		cfg:      cfg,
		log:      log,
		services: services,
		decoder:  decoder.New(),
		bgTasks:  bgTasks,
		done:     make(chan struct{}),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}

// Close stops goroutines started by the middlewares. Safe to call more than once.
func (app *Application) Close() {
	app.closeOnce.Do(func() { close(app.done) })
}
