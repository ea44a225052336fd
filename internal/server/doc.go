// Package server exposes analysis, history, reports and site checks over a
// JSON HTTP API for the browser dashboard.
package server
