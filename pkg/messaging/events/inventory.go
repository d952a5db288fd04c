// Package events contains the payloads published on inventory subjects.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/inventory/pkg/messaging"
)

// ProductEvent announces a change to a product. The subject distinguishes created, updated and deleted.
type ProductEvent struct {
	subject    string
	Carrier    map[string]string `json:"carrier,omitempty"`
	ProductID  int64             `json:"product_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewProductCreated(productID int64, carrier map[string]string) ProductEvent {
	return newProductEvent(messaging.ProductCreatedSubject, productID, carrier)
}

func NewProductUpdated(productID int64, carrier map[string]string) ProductEvent {
	return newProductEvent(messaging.ProductUpdatedSubject, productID, carrier)
}

func NewProductDeleted(productID int64, carrier map[string]string) ProductEvent {
	return newProductEvent(messaging.ProductDeletedSubject, productID, carrier)
}

func newProductEvent(subject string, productID int64, carrier map[string]string) ProductEvent {
	return ProductEvent{
		subject:    subject,
		Carrier:    carrier,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// StockUpdatedEvent carries the full stock state after an update. Empty dates mean "no value".
type StockUpdatedEvent struct {
	Carrier      map[string]string `json:"carrier,omitempty"`
	ProductID    int64             `json:"product_id"`
	Amount       int32             `json:"amount"`
	LastPurchase string            `json:"last_purchase"`
	ExpiryDate   string            `json:"expiry_date"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

func (e StockUpdatedEvent) Subject() string {
	return messaging.StockUpdatedSubject
}

func (e StockUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
