// Package config loads and validates the application configuration.
//
// Configuration is read from a YAML file, filled in with defaults, and then
// overridden by environment variables of the form TODOAPP_SECTION_FIELD
// (e.g. TODOAPP_SERVER_LISTEN_ADDRESS). Environment variables always take
// precedence over file values.
//
// A process-wide singleton (Initialize/Get) holds the loaded configuration
// for the CLI commands; library code receives the sections it needs as
// explicit arguments.
package config
