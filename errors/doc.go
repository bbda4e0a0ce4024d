// Package errors provides the structured error type shared by every package
// in this module. Errors carry a machine-readable code, a human-readable
// message, an optional cause and free-form details, and can be matched with
// HasCode or unwrapped with the standard library's errors.As.
package errors
