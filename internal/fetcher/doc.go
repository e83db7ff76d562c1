// Package fetcher retrieves the text content of single URLs for the crawl
// engine. It provides two implementations of the same Fetcher interface: a
// static HTTP client that reads the raw response body, and a headless
// browser that renders the page before reading the document. The crawl
// loop decides which one to use; this package only fetches.
package fetcher
