// Package mongodb provides the MongoDB service: a client connected during
// application startup and disconnected on shutdown.
package mongodb
