package main

import (
	"context"
	"net/http"
	"os"

	"moodlist/internal/store"
	"moodlist/shared/go/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Error(err, "invalid configuration")
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetGlobalLogger(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL, cfg.DBConnectWait)
	if err != nil {
		logger.Fatal(err, "database unavailable")
	}
	defer db.Close()

	dataStore := store.New(db)
	handler := newHTTPHandler(cfg, dataStore)

	logger.Info("API available at http://localhost" + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal(err, "server error")
	}
}
