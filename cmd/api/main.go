package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"movielib/proj/internal/api/tasks"
	"movielib/proj/internal/config"
	"movielib/proj/internal/lib/logger"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/mails"
	"movielib/proj/internal/services"
	"movielib/proj/internal/services/auth"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")

	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", "errMsg", err.Error())
		os.Exit(1)
	}
	defer closeStorage()

	bgTasks := tasks.New(log, cfg.BgTasks.Workers, cfg.BgTasks.QueueSize)
	bgTasks.Run()

	svcs := services.New(log, cfg, storage, setupMailer(cfg, log), bgTasks, validator.New())
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := svcs.Auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			log.Error("failed to bootstrap admin", "errMsg", err.Error())
			os.Exit(1)
		}
	}

	app := NewApplication(cfg, log, svcs, bgTasks)
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "errMsg", err.Error())
		os.Exit(1)
	}
}

func setupMailer(cfg *config.Config, log *slog.Logger) auth.MailProvider {
	if cfg.SMTP.Host == "" {
		log.Info("smtp host is not configured, emails will only be logged")
		return &mails.NopMailer{Log: log}
	}
	return mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		cfg.SMTP.RetriesCount,
	)
}
