// Package transport performs the bounded HTTP GET requests used by the mirror.
//
// Every failure (request construction, network, timeout, non-2xx status or an
// oversized body) is reported as crlset.ErrTransport.
package transport
