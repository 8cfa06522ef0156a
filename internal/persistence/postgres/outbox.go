package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"example.com/trainingstats/internal/events"
)

type outboxEvent struct {
	TenantID      string
	AggregateType string
	AggregateID   string
	EventType     string
	PartitionKey  string
	Payload       any
}

func insertOutbox(ctx context.Context, tx pgx.Tx, event outboxEvent) error {
	body, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	route, err := events.RouteFor(event.EventType)
	if err != nil {
		return err
	}
	// dedupe_key is unique across tenants.
	dedupeKey := fmt.Sprintf("%s:%s:%s", event.TenantID, event.AggregateID, event.EventType)

	const stmt = `INSERT INTO outbox (tenant_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		event.TenantID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		route.Topic,
		route.SchemaSubject,
		event.PartitionKey,
		body,
		dedupeKey,
	)
	return err
}
