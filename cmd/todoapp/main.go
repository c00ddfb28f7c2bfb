// Todoapp is a multi-user todo service with content moderation and
// automatic retention cleanup.
//
// It serves a JSON HTTP API for todo CRUD, filters submissions through a
// blocklist and pattern checks, rate limits clients per fixed window, and
// prunes the database on a schedule: old todos, excess todos beyond the cap,
// and todos matching blocked terms.
//
// Usage:
//
//	# Start server with default configuration
//	todoapp run
//
//	# Start with custom configuration file
//	todoapp run --config /path/to/config.yaml
//
//	# Run a one-shot cleanup against the configured database
//	todoapp cleanup
//
//	# Validate configuration
//	todoapp validate
//
//	# Show version information
//	todoapp version
package main

func main() {
	Execute()
}
