// Package version exposes build metadata for the User-Agent header and the
// CLI --version flag.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/gokit-soniox/version.Version=1.0.0"
//
// Unset values fall back to the module build info recorded by the Go toolchain.
package version
