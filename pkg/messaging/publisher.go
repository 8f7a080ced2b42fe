package messaging

import (
	"context"
)

const (
	SalesCreatedSubject = "sales.created"
	SalesDeletedSubject = "sales.deleted"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
