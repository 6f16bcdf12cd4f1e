// Package api exposes the storefront services over HTTP. Handlers decode
// and validate JSON requests, call a single service operation and map the
// result, or its error, to a JSON response. Routing lives in Handlers.Mount.
package api
