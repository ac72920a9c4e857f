package infrastructure

import (
	"fmt"
	"net/url"
	"strings"

	"acornAdmin/internal/modules/listview/application/port"
)

type pathBuilder func(string) (string, error)

type resourceEndpoint struct {
	listPath   string
	createPath string
	itemPath   pathBuilder
}

// Backend resources keyed by the entity name used in change events.
var resourceEndpoints = map[string]resourceEndpoint{
	"customer": {
		listPath:   "/customer",
		createPath: "/customer",
		itemPath:   resourcePathBuilder("/customer"),
	},
	"product": {
		listPath:   "/product",
		createPath: "/product",
		itemPath:   resourcePathBuilder("/product"),
	},
	"productB": {
		listPath:   "/productBList",
		createPath: "/productB",
		itemPath:   resourcePathBuilder("/productB"),
	},
}

func lookupEndpoint(resource string) (resourceEndpoint, error) {
	endpoint, ok := resourceEndpoints[strings.TrimSpace(resource)]
	if !ok {
		return resourceEndpoint{}, fmt.Errorf("unsupported backend resource %q", resource)
	}
	return endpoint, nil
}

func resourcePathBuilder(base string) pathBuilder {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	return func(value string) (string, error) {
		identifier := strings.TrimSpace(value)
		if identifier == "" {
			return "", port.ErrRecordNotFound
		}
		return trimmed + "/" + url.PathEscape(identifier), nil
	}
}
