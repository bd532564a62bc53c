// Package main runs the paper-mill operational dashboard API.
// The service exposes:
// - Summary, process-flow and per-process monitoring endpoints
// - Quality-trend and traceability/lot-journey endpoints
// - Demo-data synthesis with an explicit, seedable random source
// - Short-lived response caching in Redis (optional)
// - Critical-alert publication to NATS (optional)
// - Prometheus metrics export
package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	gorilla "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iceplantengineering/paperplant/internal/alerting"
	"github.com/iceplantengineering/paperplant/internal/cache"
	"github.com/iceplantengineering/paperplant/internal/handlers"
	"github.com/iceplantengineering/paperplant/internal/metrics"
	"github.com/iceplantengineering/paperplant/internal/synth"
)

// Config holds the service configuration.
type Config struct {
	ServerAddr    string
	Environment   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSURL       string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
}

func main() {
	log.Println("Starting paperplant dashboard service...")
	log.Printf("Go version: %s", runtime.Version())

	cfg := loadConfig()

	// Redis is a cache, not a dependency: connect with retries, then
	// degrade to pure synthesis.
	var redisCache *cache.RedisCache
	var err error
	for i := 0; i < 5; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			log.Printf("Connected to Redis at %s", cfg.RedisAddr)
			break
		}
		log.Printf("Redis connection attempt %d failed: %v", i+1, err)
		if i < 4 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}
	if err != nil {
		log.Printf("Warning: running without response cache: %v", err)
		redisCache = nil
	}

	// NATS is optional as well: unset NATS_URL disables publication.
	var publisher *alerting.Publisher
	if cfg.NATSURL != "" {
		publisher, err = alerting.NewPublisher(cfg.NATSURL)
		if err != nil {
			log.Printf("Warning: running without alert publisher: %v", err)
			publisher = nil
		} else {
			log.Printf("Publishing critical alerts to %s", cfg.NATSURL)
		}
	}

	newSynth := func() *synth.Synthesizer {
		return synth.New(time.Now().UnixNano())
	}
	handler := handlers.NewHandler(redisCache, publisher, cfg.Environment, newSynth)

	router := mux.NewRouter()
	router.HandleFunc("/dashboard/summary", handler.SummaryHandler).Methods("GET")
	router.HandleFunc("/dashboard/process-flow", handler.ProcessFlowHandler).Methods("GET")
	router.HandleFunc("/dashboard/process/{code}", handler.ProcessMonitoringHandler).Methods("GET")
	router.HandleFunc("/dashboard/quality-trend/{parameter}", handler.QualityTrendHandler).Methods("GET")
	router.HandleFunc("/traceability/search", handler.SearchHandler).Methods("GET")
	router.HandleFunc("/traceability/journey/{lotId}", handler.JourneyHandler).Methods("GET")
	router.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	// Prometheus exposition
	router.Handle("/prometheus", promhttp.Handler())

	// pprof for profiling
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	router.NotFoundHandler = http.HandlerFunc(handler.NotFoundHandler)
	router.Use(loggingMiddleware)

	// CORS fully open, panics reported as HTTP 500.
	chain := gorilla.CORS(
		gorilla.AllowedOrigins([]string{"*"}),
		gorilla.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilla.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	chain = gorilla.RecoveryHandler(gorilla.PrintRecoveryStack(true))(chain)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      chain,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go updateRuntimeMetrics()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on %s", cfg.ServerAddr)
		log.Printf("Endpoints:")
		log.Printf("  GET /dashboard/summary")
		log.Printf("  GET /dashboard/process-flow")
		log.Printf("  GET /dashboard/process/{code}")
		log.Printf("  GET /dashboard/quality-trend/{parameter}")
		log.Printf("  GET /traceability/search")
		log.Printf("  GET /traceability/journey/{lotId}")
		log.Printf("  GET /health")
		log.Printf("  GET /prometheus")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if publisher != nil {
		publisher.Close()
	}
	if redisCache != nil {
		redisCache.Close()
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// loadConfig loads configuration from the environment, with an optional
// .env.local for local development.
func loadConfig() Config {
	if err := godotenv.Load(".env.local"); err != nil {
		log.Println("No .env.local file found, using OS environment variables")
	}

	return Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		NATSURL:       getEnv("NATS_URL", ""),
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
	}
}

// getEnv reads an environment variable with a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable with a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// loggingMiddleware logs each HTTP request with its latency.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// updateRuntimeMetrics periodically refreshes runtime gauges.
func updateRuntimeMetrics() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		metrics.ActiveGoroutines.Set(float64(runtime.NumGoroutine()))
	}
}
