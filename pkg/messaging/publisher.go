// Package messaging defines the outbound event contract and publisher decorators.
package messaging

import (
	"context"
)

// Subjects published by the inventory service.
const (
	ProductCreatedSubject = "inventory.product.created"
	ProductUpdatedSubject = "inventory.product.updated"
	ProductDeletedSubject = "inventory.product.deleted"
	StockUpdatedSubject   = "inventory.stock.updated"

	// InventorySubjects matches every subject above.
	InventorySubjects = "inventory.>"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
