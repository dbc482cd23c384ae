// Package startup loads and validates service configuration from the
// environment and prepares the directories the service depends on.
package startup
