package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/macracrm/macra-crm/internal/entity"
)

// Notifier is whatever reacts to a won deal (SMTP sender in production,
// a mock in tests).
type Notifier interface {
	NotifyDealWon(leadName, leadEmail string) error
}

// Worker drains the lead event queue and fires notifications. Everything it
// cannot parse goes to the DLQ instead of requeueing.
type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
}

func NewWorker(ch *amqp.Channel, notifier Notifier) *Worker {
	return &Worker{Channel: ch, Notifier: notifier}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("failed to register RabbitMQ consumer: %s", err)
	}

	log.Printf("[worker] waiting on queue %q", queueName)

	for d := range msgs {
		var payload LeadEventPayload
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			log.Printf("[worker] malformed message, sending to DLQ: %s", err)
			d.Nack(false, false)
			continue
		}

		if err := w.Process(payload); err != nil {
			log.Printf("[worker] failed to process %s for lead %s: %s", payload.Event, payload.LeadID, err)
			d.Nack(false, false)
			continue
		}
		d.Ack(false)
	}
}

// Process handles one event. Only status changes into Deal trigger a
// notification; every other event is acknowledged and dropped.
func (w *Worker) Process(payload LeadEventPayload) error {
	if payload.Event != EventLeadStatusChanged {
		return nil
	}
	if payload.Status != string(entity.StatusDeal) {
		return nil
	}
	return w.Notifier.NotifyDealWon(payload.Name, payload.Email)
}
