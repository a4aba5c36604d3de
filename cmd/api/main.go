package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/macracrm/macra-crm/internal/infra/http/handlers"
	"github.com/macracrm/macra-crm/internal/infra/http/middleware"
	"github.com/macracrm/macra-crm/internal/infra/queue"
	"github.com/macracrm/macra-crm/internal/remote"
	"github.com/macracrm/macra-crm/internal/store"
)

func main() {
	godotenv.Load()

	dataServiceURL := envOr("DATA_SERVICE_URL", "http://localhost:3000")
	sessionPath := envOr("SESSION_FILE", "crm-auth.json")
	corsOrigin := envOr("CORS_ORIGIN", "http://localhost:5173")

	// The event pipeline is optional: with no broker configured the store
	// simply publishes nothing.
	var rabbitMQ *queue.RabbitMQ
	var producer store.EventPublisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		var err error
		rabbitMQ, err = queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitMQ.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	}

	dataClient := remote.NewClient(dataServiceURL)
	crmStore := store.NewCrmStore(dataClient, producer)
	sessionStore := store.NewSessionStore(store.NewSessionFile(sessionPath))

	authHandler := handlers.NewAuthHandler(sessionStore)
	leadHandler := handlers.NewLeadHandler(crmStore)
	interactionHandler := handlers.NewInteractionHandler(crmStore)
	statsHandler := handlers.NewStatsHandler(crmStore)

	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(dataServiceURL, rabbitConn)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{corsOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/auth/login", authHandler.HandleLogin)
	r.Post("/auth/logout", authHandler.HandleLogout)
	r.Get("/auth/me", authHandler.HandleMe)

	r.Get("/leads", leadHandler.HandleList)
	r.Post("/leads", leadHandler.HandleCreate)
	r.Get("/leads/{id}", leadHandler.HandleGet)
	r.Put("/leads/{id}", leadHandler.HandleUpdate)
	r.With(middleware.RequirePermission(sessionStore, "delete_leads")).
		Delete("/leads/{id}", leadHandler.HandleDelete)

	r.Get("/leads/{id}/interactions", interactionHandler.HandleListForLead)
	r.Get("/interactions", interactionHandler.HandleList)
	r.Post("/interactions", interactionHandler.HandleCreate)
	r.With(middleware.RequirePermission(sessionStore, "delete_interactions")).
		Delete("/interactions/{id}", interactionHandler.HandleDelete)

	r.Get("/stats", statsHandler.HandleStats)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 MACRA CRM api listening on %s (data service %s)", port, dataServiceURL)
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
