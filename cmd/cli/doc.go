// Package cli constructs the default-branch command-line interface. It wires
// the Cobra root command, the layered configuration loader with its embedded
// defaults, and the zap logger shared by the updater.
package cli
