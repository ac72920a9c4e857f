package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"acornAdmin/internal/modules/listview/application/port"
)

// envelopeKeys are the wrapper keys accepted when the backend returns an object instead of a bare
// array.
var envelopeKeys = []string{"items", "data", "content"}

// CollectionHTTPClient fetches a whole backend collection and performs create/delete round-trips
// for the same resource.
type CollectionHTTPClient[T any, P any] struct {
	rest     *RESTClient
	resource string
	endpoint resourceEndpoint
}

func NewCollectionHTTPClient[T any, P any](rest *RESTClient, resource string) (*CollectionHTTPClient[T, P], error) {
	endpoint, err := lookupEndpoint(resource)
	if err != nil {
		return nil, err
	}
	return &CollectionHTTPClient[T, P]{rest: rest, resource: resource, endpoint: endpoint}, nil
}

// FetchAll issues one GET for the collection. The fetch is all-or-nothing: any transport, status
// or decode failure returns no records.
func (c *CollectionHTTPClient[T, P]) FetchAll(ctx context.Context) ([]T, error) {
	slog.Info("collection fetch start", slog.String("resource", c.resource), slog.String("path", c.endpoint.listPath))
	body, err := c.rest.Get(ctx, c.endpoint.listPath)
	if err != nil {
		return nil, err
	}
	records, err := decodeCollection[T](body)
	if err != nil {
		slog.Error("collection decode failed", slog.String("resource", c.resource), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", port.ErrFetchFailed, err)
	}
	return records, nil
}

// Create posts payload to the resource.
func (c *CollectionHTTPClient[T, P]) Create(ctx context.Context, payload P) error {
	if _, err := c.rest.Post(ctx, c.endpoint.createPath, payload); err != nil {
		return err
	}
	slog.Info("record created", slog.String("resource", c.resource))
	return nil
}

// Delete removes the record with id.
func (c *CollectionHTTPClient[T, P]) Delete(ctx context.Context, id string) error {
	path, err := c.endpoint.itemPath(id)
	if err != nil {
		return err
	}
	if _, err := c.rest.Delete(ctx, path); err != nil {
		return err
	}
	slog.Info("record deleted", slog.String("resource", c.resource), slog.String("resourceId", id))
	return nil
}

func decodeCollection[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode collection envelope: %w", err)
		}
		unwrapped := false
		for _, key := range envelopeKeys {
			if raw, ok := envelope[key]; ok {
				trimmed = bytes.TrimSpace(raw)
				unwrapped = true
				break
			}
		}
		if !unwrapped {
			return nil, fmt.Errorf("decode collection: object without %v", envelopeKeys)
		}
	}
	records := []T{}
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

var (
	_ port.CollectionSource[struct{}] = (*CollectionHTTPClient[struct{}, struct{}])(nil)
	_ port.RecordMutator[struct{}]    = (*CollectionHTTPClient[struct{}, struct{}])(nil)
)
