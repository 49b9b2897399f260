// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cardroom/hearts/internal/cache"
	"github.com/cardroom/hearts/internal/handlers"
	"github.com/cardroom/hearts/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// The historian is optional; rooms run fine without Redis.
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("Redis unavailable, action history disabled: %v", err)
	} else {
		logger.Info("Connected to Redis.")
	}

	srv := handlers.NewRoomServer()
	if ms := envInt("TRICK_DELAY_MS", -1); ms >= 0 {
		srv.Store.Defaults.TrickDelay = time.Duration(ms) * time.Millisecond
	}
	if target := envInt("TARGET_SCORE", -1); target >= 1 {
		srv.Store.Defaults.TargetScore = target
	}
	if os.Getenv("OMNIBUS_JACK") == "true" {
		srv.Store.Defaults.OmnibusJack = true
	}

	logMiddleware := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws/", logMiddleware(handlers.RoomWSHandler(logger, srv)))
	mux.Handle("/rooms", logMiddleware(handlers.ListRoomsHandler(srv)))
	mux.HandleFunc("/healthz", handlers.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)

	logger.Infof("Hearts server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
