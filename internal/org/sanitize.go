package org

import (
	"regexp"
	"strings"

	"github.com/hugh/orghub/internal/store"
)

var (
	invalidChars  = regexp.MustCompile(`[^a-z0-9_]`)
	repeatedUnder = regexp.MustCompile(`_+`)
)

// PartitionKey derives the canonical partition key for an organization name:
// lower-cased, anything outside [a-z0-9_] replaced with underscores, runs of
// underscores collapsed, then namespaced with the partition prefix.
//
// Total and deterministic. A degenerate name collapses to the bare prefix;
// callers must treat that as an invalid name.
func PartitionKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = invalidChars.ReplaceAllString(key, "_")
	key = repeatedUnder.ReplaceAllString(key, "_")
	key = strings.Trim(key, "_")
	return store.PartitionPrefix + key
}
