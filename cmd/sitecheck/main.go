// Package main provides the entry point for the sitecheck CLI.
//
// Sitecheck analyzes websites for phishing indicators. It scrapes the page,
// classifies security flags and asks an AI model for an assessment, falling
// back to rule-based scoring when no API key is configured.
//
// Usage:
//
//	sitecheck example.com
//	sitecheck analyze --json example.com
//	sitecheck serve
//
// See --help for all available options.
package main

// main is the entry point for sitecheck.
func main() {
	Execute()
}
