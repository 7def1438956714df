// Package logger provides structured logging on top of zerolog.
//
// Loggers are created once from Config and passed to the components that need
// them. Components tag their output with WithComponent.
//
//	log := logger.New(&cfg.Logging, cfg.Name)
//	db := mongodb.New(cfg.Mongo, log)
//	log.WithComponent("http").Info("listening", logger.Fields("addr", addr))
package logger
