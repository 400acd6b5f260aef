package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"cyber-incident-desk/pkg/middleware"
	"cyber-incident-desk/pkg/queue"
)

// dispatcher drains notification jobs and forwards each one to the matching
// notify-service endpoint. Job bodies are forwarded as-is; the queue contract
// already matches the notify request payloads.
type dispatcher struct {
	client  *http.Client
	baseURL string
}

func newDispatcher(baseURL string) *dispatcher {
	return &dispatcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

func (d *dispatcher) endpointFor(jobType string) (string, bool) {
	switch jobType {
	case queue.JobIncidentCreated:
		return d.baseURL + "/functions/notify-incident", true
	case queue.JobStatusChanged:
		return d.baseURL + "/functions/notify-status-change", true
	}
	return "", false
}

// process handles one queue delivery. A malformed or unroutable job is
// dropped after logging; it would never succeed on redelivery.
func (d *dispatcher) process(body []byte) error {
	var job queue.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		middleware.CountNotificationJob("unknown", "invalid")
		return fmt.Errorf("malformed job payload: %w", err)
	}

	endpoint, ok := d.endpointFor(job.Type)
	if !ok {
		middleware.CountNotificationJob(job.Type, "invalid")
		return fmt.Errorf("unknown job type: %q", job.Type)
	}

	resp, err := d.client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		middleware.CountNotificationJob(job.Type, "failed")
		return fmt.Errorf("notify service unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		middleware.CountNotificationJob(job.Type, "failed")
		return fmt.Errorf("notify service returned %d for ticket %s", resp.StatusCode, job.TicketCode)
	}

	middleware.CountNotificationJob(job.Type, "delivered")
	log.Printf("[OK] Delivered %s job for ticket %s", job.Type, job.TicketCode)
	return nil
}
