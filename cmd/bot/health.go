package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	edugo "github.com/EduGo2025Bot/telegram-bot-edugo"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// serveStatus runs the keep-alive HTTP surface: a root liveness reply for
// external pingers and a small JSON status endpoint.
func serveStatus(cfg edugo.Config, sessions *edugo.SessionStore) {
	started := time.Now()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("I'm alive!"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"sessions": sessions.Count(),
			"uptime":   time.Since(started).Round(time.Second).String(),
		})
	})

	log.Printf("Status server listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Printf("Status server stopped: %v", err)
	}
}

// keepAlive pings the given URL every 14 minutes so free-tier hosts don't
// put the instance to sleep. No-op when the URL is empty.
func keepAlive(url string) {
	if url == "" {
		return
	}
	client := &http.Client{Timeout: 30 * time.Second}
	ticker := time.NewTicker(14 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		resp, err := client.Get(url)
		if err != nil {
			log.Printf("Keep-alive ping failed: %v", err)
			continue
		}
		resp.Body.Close()
		edugo.VerboseLog("Keep-alive ping sent to %s", url)
	}
}
