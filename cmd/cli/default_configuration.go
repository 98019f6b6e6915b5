package cli

import (
	_ "embed"

	"github.com/temirov/filediff/internal/compare"
	"github.com/temirov/filediff/internal/utils"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded default configuration and its format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), embeddedDefaultConfigurationContent...), configurationTypeConstant
}

// DefaultApplicationConfiguration mirrors the embedded defaults in code.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Common: ApplicationCommonConfiguration{
			LogLevel:  string(utils.LogLevelInfo),
			LogFormat: string(utils.LogFormatConsole),
		},
		Compare: compare.DefaultConfiguration(),
	}
}
