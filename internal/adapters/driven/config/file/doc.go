// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.research-assistant/config.toml
//   - LoadDotEnv: .env loading into the process environment
package file
