// Package config provides configuration structures and utilities for
// contactscan. It defines the main configuration options for crawling seed
// sites, phone-region handling, early-stop thresholds, and report output
// preferences, plus the YAML file with per-site overrides.
package config
