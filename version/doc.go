// Package version carries build metadata for rxkit binaries.
//
// Values are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/rxkit/version.Version=1.2.0"
//
// Missing values fall back to the VCS settings embedded by the Go
// toolchain.
package version
