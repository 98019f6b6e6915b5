package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTypeNameConstant           = "bool"
	toggleTrueConstant               = "true"
	toggleFalseConstant              = "false"
	toggleParseErrorTemplateConstant = "invalid toggle value %q (expected yes or no)"
	toggleUsageTemplateConstant      = "`%s` %s"
	toggleDefaultOnPlaceholder       = "<YES|no>"
	toggleDefaultOffPlaceholder      = "<yes|NO>"
	longFlagPrefixConstant           = "--"
	flagValueSeparatorConstant       = "="
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"y":     true,
	"1":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"n":     false,
	"0":     false,
}

var (
	registeredTogglesGuard sync.RWMutex
	registeredToggles      = map[string]struct{}{}
)

type toggleValue struct {
	target *bool
}

func (value toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value toggleValue) String() string {
	if value.target != nil && *value.target {
		return toggleTrueConstant
	}
	return toggleFalseConstant
}

func (value toggleValue) Type() string {
	return toggleTypeNameConstant
}

// ParseToggle converts yes/no style literals to a boolean. An empty value means true.
func ParseToggle(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return false, fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}
	return parsedValue, nil
}

// AddToggleFlag registers a boolean flag accepting yes/no values, written either as --name=value or --name value.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}

	*target = defaultValue
	flagSet.Var(toggleValue{target: target}, name, toggleUsage(defaultValue, usage))
	flagSet.Lookup(name).NoOptDefVal = toggleTrueConstant

	registeredTogglesGuard.Lock()
	registeredToggles[name] = struct{}{}
	registeredTogglesGuard.Unlock()
}

// NormalizeToggleArguments joins "--name value" into "--name=value" for registered toggles
// when value is a toggle literal, so positional arguments after a bare toggle stay positional.
func NormalizeToggleArguments(arguments []string) []string {
	normalizedArguments := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if argument == longFlagPrefixConstant {
			normalizedArguments = append(normalizedArguments, arguments[argumentIndex:]...)
			break
		}

		hasFollowingArgument := argumentIndex+1 < len(arguments)
		if hasFollowingArgument && isBareToggle(argument) && isToggleLiteral(arguments[argumentIndex+1]) {
			normalizedArguments = append(normalizedArguments, argument+flagValueSeparatorConstant+arguments[argumentIndex+1])
			argumentIndex++
			continue
		}
		normalizedArguments = append(normalizedArguments, argument)
	}
	return normalizedArguments
}

func toggleUsage(defaultValue bool, description string) string {
	placeholder := toggleDefaultOffPlaceholder
	if defaultValue {
		placeholder = toggleDefaultOnPlaceholder
	}
	return strings.TrimSpace(fmt.Sprintf(toggleUsageTemplateConstant, placeholder, strings.TrimSpace(description)))
}

func isBareToggle(argument string) bool {
	if !strings.HasPrefix(argument, longFlagPrefixConstant) || strings.Contains(argument, flagValueSeparatorConstant) {
		return false
	}
	registeredTogglesGuard.RLock()
	defer registeredTogglesGuard.RUnlock()
	_, registered := registeredToggles[strings.TrimPrefix(argument, longFlagPrefixConstant)]
	return registered
}

func isToggleLiteral(argument string) bool {
	_, known := toggleLiterals[strings.ToLower(strings.TrimSpace(argument))]
	return known
}
