// Package cli constructs the filediff command-line interface. It wires the
// Cobra command hierarchy to the layered Viper configuration (embedded
// defaults, config.yaml, FILEDIFF_* variables) and to the zap logger used by
// every command.
package cli
