// Package main provides the entry point for the contactscan CLI.
//
// Contactscan crawls business websites and collects the contact
// identifiers they publish: email addresses and mobile phone numbers.
//
// Usage:
//
//	contactscan crawl example.it another.example.com
//	contactscan crawl --seeds customers.xlsx
//
// See --help for all available options.
package main

// main is the entry point for contactscan.
func main() {
	Execute()
}
