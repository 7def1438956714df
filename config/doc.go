// Package config loads service configuration from config.yml, an optional
// .env file and the process environment.
//
// Files are searched under ./cmd/<service>/ first, then ./config/ and the
// working directory. Environment variables override file values; nested keys
// are matched by splitting on underscores, so SERVER_PORT sets server.port and
// MONGO_CONNECT_TIMEOUT sets mongo.connect_timeout.
//
//	var cfg Config
//	if err := config.Load("articles", &cfg); err != nil { ... }
package config
