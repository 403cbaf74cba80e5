// Package omaha talks to the browser vendor's update-check endpoint.
//
// It builds the query for the configured application, parses the XML
// response and extracts the advertised version and download location.
package omaha
