package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/macracrm/macra-crm/internal/dataserver"
)

func main() {
	godotenv.Load()

	var storage dataserver.Storage
	if connString := os.Getenv("DATABASE_URL"); connString != "" {
		pg, err := dataserver.OpenPostgres(connString)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.DB.Close()
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal(err)
		}
		storage = pg
		log.Printf("[dataserver] using postgres storage")
	} else {
		storage = dataserver.NewMemoryStorage()
		log.Printf("[dataserver] using in-memory storage")
	}

	server := dataserver.NewServer(storage)

	port := ":" + envOr("PORT", "3000")
	log.Printf("🔥 MACRA CRM data service listening on %s", port)
	if err := http.ListenAndServe(port, server.Router()); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
