// Package flags provides yes/no toggle flags and usage formatting shared by
// the command and its configuration decoding.
package flags
