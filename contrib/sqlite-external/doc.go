// Package sqliteexternal registers the optional CGO SQLite driver.
//
// core/sqlite imports it when built with the cgo_sqlite tag:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/sid
//
// The default build uses modernc.org/sqlite and needs no C toolchain.
package sqliteexternal
