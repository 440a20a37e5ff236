// Package version reports the build of the typeioc library and of the
// binary embedding it.
//
// Version, commit and build time of a binary are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/typeioc/version.Version=1.0.0"
//
// When unset they fall back to the VCS stamp recorded by the Go toolchain.
package version
