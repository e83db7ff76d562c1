// Package model defines the core data structures used throughout contactscan.
//
// This package contains the following main types:
//   - SiteResult: The contact identifiers collected for one seed site
//   - StopReason: Why a site crawl terminated
//   - Event: Typed events streamed from the crawl engine to its consumer
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database, log) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
