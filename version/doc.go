// Package version reports build information. Values come from -ldflags when
// set and from the module build info otherwise:
//
//	go build -ldflags "-X github.com/kbukum/articles/version.Version=1.2.0" ./cmd/articles
package version
