// Package errors defines the application error type used across the service
// and the JSON envelope the HTTP catch-all writes for failed requests.
package errors
