package port

import (
	"context"
	"errors"

	"acornAdmin/internal/modules/listview/domain"
)

var (
	ErrFetchFailed         = errors.New("collection fetch failed")
	ErrCollectionForbidden = errors.New("collection forbidden")
	ErrRecordNotFound      = errors.New("record not found")
	ErrStaleFetch          = errors.New("collection fetch superseded")
	ErrMutationRejected    = errors.New("record mutation rejected")
)

// CollectionSource returns the full remote collection in one round-trip.
type CollectionSource[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
}

// RecordCreator performs the round-trip behind a registration modal.
type RecordCreator[P any] interface {
	Create(ctx context.Context, payload P) error
}

// RecordDeleter performs the round-trip behind a delete confirmation modal.
type RecordDeleter interface {
	Delete(ctx context.Context, id string) error
}

// RecordMutator combines both for resources that support create and delete.
type RecordMutator[P any] interface {
	RecordCreator[P]
	RecordDeleter
}

// Broadcaster sends messages to connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles backend change events consumed from one broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
