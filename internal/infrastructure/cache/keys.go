package cache

import (
	"fmt"
	"strings"
)

// SchemaVersion is the serialized-shape version embedded in every cache
// key. Bump it when an entity's cached representation changes: the new
// deployment computes different keys, so old entries are never read
// again and expire on their own, with no explicit migration step.
const SchemaVersion = "v1"

// Entity type components used in cache keys
const (
	EntityTypeBill         = "bill"
	EntityTypeOrganization = "org"
	EntityTypeBillList     = "bills_org"
)

// EntityKey builds the cache key for a single entity:
// {namespace}_{schemaVersion}_{entityType}_{entityId}
func EntityKey(namespace, entityType string, id fmt.Stringer) string {
	return fmt.Sprintf("%s_%s_%s_%s", namespace, SchemaVersion, entityType, id.String())
}

// EntityPrefix builds the shared prefix of every key of one entity
// family, for prefix-based invalidation
func EntityPrefix(namespace, entityType string) string {
	return fmt.Sprintf("%s_%s_%s_", namespace, SchemaVersion, entityType)
}

// ListKey builds the cache key for a derived list value, appending the
// extra discriminators (page, size, ...) to the family prefix
func ListKey(namespace, entityType string, id fmt.Stringer, parts ...interface{}) string {
	key := EntityKey(namespace, entityType, id)
	if len(parts) == 0 {
		return key
	}
	suffix := make([]string, len(parts))
	for i, p := range parts {
		suffix[i] = fmt.Sprintf("%v", p)
	}
	return key + "_" + strings.Join(suffix, "_")
}
