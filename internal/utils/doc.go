// Package utils holds the configuration and logging plumbing shared by filediff commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// FILEDIFF_* environment variables through Viper. LoggerFactory builds zap
// loggers that write to standard error so diagnostics never mix with the diff
// printed on standard output.
package utils
