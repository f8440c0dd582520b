package shopify

import (
	"fmt"
	"strings"
)

const gidPrefix = "gid://shopify/"

// ProductGID accepts a bare product id ("123") or a fully-qualified one
// ("gid://shopify/Product/123") and returns the fully-qualified form.
func ProductGID(id string) (string, error) {
	return normalizeGID("Product", id)
}

func normalizeGID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s id is empty", strings.ToLower(kind))
	}

	prefix := gidPrefix + kind + "/"
	if strings.HasPrefix(id, prefix) {
		if len(id) == len(prefix) {
			return "", fmt.Errorf("%s id %q has no numeric part", strings.ToLower(kind), id)
		}
		return id, nil
	}
	if strings.HasPrefix(id, gidPrefix) {
		return "", fmt.Errorf("%q is not a %s id", id, kind)
	}
	return prefix + id, nil
}
