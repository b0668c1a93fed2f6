package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bullwhip-go/internal/api"
	"bullwhip-go/internal/demand"
)

func main() {
	cfg, err := api.ConfigFromEnv()
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic("config invalid: " + err.Error())
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	schedule := demand.DefaultSchedule()
	if cfg.ScheduleFile != "" {
		schedule, err = demand.LoadSchedule(cfg.ScheduleFile)
		if err != nil {
			log.Fatalw("load schedule", "path", cfg.ScheduleFile, "error", err)
		}
		log.Infow("custom demand schedule loaded", "path", cfg.ScheduleFile)
	}

	server := api.NewServer(cfg, schedule, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       2 * time.Second,
		WriteTimeout:      2 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	log.Infow("bullwhip server listening", "addr", cfg.Addr, "default_role", cfg.DefaultRole)
	log.Fatal(srv.ListenAndServe())
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	_ = lvl.Set(level)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
