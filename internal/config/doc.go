// Package config handles configuration parsing, validation and rendering.
//
// # Overview
//
// The countdown is configured with HCL (HashiCorp Configuration Language).
// JSON and YAML files are accepted as well, chosen by file extension.
// This package provides:
//   - HCL parsing with an evaluation context exposing environment variables
//   - Defaults for every block, so an empty file is a valid configuration
//   - Validation that reports every problem at once
//   - Rendering a Config back to HCL (used by "countdown init")
//
// # Configuration Blocks
//
//   - target: compiled-in default target date and the journey anchor
//   - milestone: labelled day thresholds, replacing the defaults when present
//   - state: location of the target date database
//   - server: HTTP listener, static assets and rate limiting
//   - logging: level and output format
//
// # Environment
//
// Attribute expressions may reference environment variables through the
// env object:
//
//	state {
//	  path = "${env.HOME}/.countdown/state.db"
//	}
//
// Example:
//
//	target {
//	  default = "2030-06-30T17:00"
//	  anchor  = "2024-01-01T00:00"
//	}
//
//	milestone "365" {
//	  label = "One year to go"
//	}
//
//	tick_interval = "1s"
package config
