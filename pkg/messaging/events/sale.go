package events

import (
	"encoding/json"
	"time"

	"github.com/pviana/store-manager/pkg/messaging"
)

type SaleItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type SaleCreatedEvent struct {
	SaleID    string     `json:"sale_id"`
	Items     []SaleItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s SaleCreatedEvent) Subject() string {
	return messaging.SalesCreatedSubject
}

func (s SaleCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(s)
}

type SaleDeletedEvent struct {
	SaleID    string     `json:"sale_id"`
	Items     []SaleItem `json:"items"`
	DeletedAt time.Time  `json:"deleted_at"`
}

func (s SaleDeletedEvent) Subject() string {
	return messaging.SalesDeletedSubject
}

func (s SaleDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(s)
}
