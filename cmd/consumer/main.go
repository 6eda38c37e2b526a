package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

const groupID = "audit-log-consumer-group"

// The consumer tails the audit stream for operators: it pretty-prints each
// event and is intentionally free of any processing logic.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	log.Println("Starting audit log consumer...")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        groupID,
		Topic:          cfg.Kafka.AuditTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		log.Println("Closing Kafka reader...")
		if err := r.Close(); err != nil {
			log.Printf("Error closing Kafka reader: %v", err)
		}
	}()

	log.Printf("Consumer connected to topic '%s' on brokers %v", cfg.Kafka.AuditTopic, cfg.Kafka.Brokers)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown signal received, stopping consumer.")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error reading message: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			printEvent(m)
		}
	}
}

func printEvent(m kafka.Message) {
	var event repository.AuditEventPayload
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("Skipping malformed audit event at offset %d: %v", m.Offset, err)
		return
	}

	fmt.Printf("\n--- AUDIT EVENT ---\n")
	fmt.Printf("Timestamp:  %s\n", event.Timestamp.Format(time.RFC3339))
	fmt.Printf("Operation:  %s\n", event.OperationID)
	fmt.Printf("Order:      %s (token %s)\n", event.OrderID, event.TokenID)
	fmt.Printf("Action:     %s [%s]\n", event.Action, event.Severity)
	if event.ExecutionTimeMs != nil {
		fmt.Printf("Duration:   %dms\n", *event.ExecutionTimeMs)
	}
	if len(event.Details) > 0 {
		details, _ := json.Marshal(event.Details)
		fmt.Printf("Details:    %s\n", details)
	}
	fmt.Printf("Partition:  %d  Offset: %d\n", m.Partition, m.Offset)
	fmt.Println("--- END EVENT ---")
}
