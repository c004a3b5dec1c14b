// Package utils holds the configuration loader and logger factory used by
// the command-line entrypoint.
package utils
