// Package config loads and validates PlantBox Core configuration.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by PLANTBOX_* environment variables. Validation
// runs once at load time so the rest of the application can trust the
// values it receives.
package config
