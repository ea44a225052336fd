// Package probe checks whether a site answers over HTTP and detects the
// third-party technologies its landing page loads.
//
// Detection works on the parsed HTML document (golang.org/x/net/html):
// script sources, inline script bodies, link hrefs and the generator meta
// tag are matched against a fixed list of signatures. Nothing is executed.
package probe
