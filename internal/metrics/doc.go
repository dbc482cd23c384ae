// Package metrics defines the Prometheus collectors exported by the media
// store. Collectors are registered at import time via promauto and exposed
// through the /metrics endpoint.
package metrics
