package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type HealthHandler struct {
	DataServiceURL string
	RabbitMQ       *amqp091.Connection
	StartTime      time.Time

	probe *http.Client
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(dataServiceURL string, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		DataServiceURL: dataServiceURL,
		RabbitMQ:       rabbitMQ,
		StartTime:      time.Now(),
		probe:          &http.Client{Timeout: 2 * time.Second},
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Data service: one cheap list call decides reachable or not.
	if h.DataServiceURL != "" {
		resp, err := h.probe.Get(h.DataServiceURL + "/leads")
		if err != nil {
			deps["data_service"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
				deps["data_service"] = "healthy"
			} else {
				deps["data_service"] = fmt.Sprintf("unhealthy: status %d", resp.StatusCode)
			}
		}
	} else {
		deps["data_service"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
