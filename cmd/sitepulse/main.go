// Package main provides the entry point for the SitePulse CLI.
//
// SitePulse audits web pages through the PageSpeed Insights API and falls
// back to deterministic simulated results when no API key is configured.
//
// Usage:
//
//	sitepulse analyze https://example.com
//	sitepulse history
//	sitepulse serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
