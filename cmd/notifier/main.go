package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/macracrm/macra-crm/internal/infra/mail"
	"github.com/macracrm/macra-crm/internal/infra/queue"
)

func main() {
	godotenv.Load()

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	rabbitMQ, err := queue.NewRabbitMQ(url)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Close()

	port := 587
	if v := os.Getenv("MAIL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	sender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"),
		port,
		os.Getenv("MAIL_USER"),
		os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_TO"),
	)

	worker := queue.NewWorker(rabbitMQ.Ch, sender)
	worker.Start(queue.QueueName)
}
