package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue  = "true"
	toggleFalseCanonicalValue = "false"
	toggleYesChoice           = "yes"
	toggleNoChoice            = "no"
	toggleParseErrorTemplate  = "invalid toggle value %q"
	toggleFlagTypeName        = "bool"
	longFlagPrefix            = "--"
	flagValueSeparator        = "="
)

var (
	trueLiterals  = map[string]struct{}{"true": {}, "yes": {}, "on": {}, "1": {}, "t": {}, "y": {}}
	falseLiterals = map[string]struct{}{"false": {}, "no": {}, "off": {}, "0": {}, "f": {}, "n": {}}

	toggleRegistryMutex sync.RWMutex
	toggleRegistry      = map[string]struct{}{}
)

// ParseToggle interprets yes/no style values. Blank input is rejected.
func ParseToggle(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if _, isTrue := trueLiterals[normalizedValue]; isTrue {
		return true, nil
	}
	if _, isFalse := falseLiterals[normalizedValue]; isFalse {
		return false, nil
	}
	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}

// AddToggleFlag registers a boolean flag accepting yes/no style values. A bare
// "--name" sets it to true. target may be nil when the value is read back with
// FlagSet.GetBool.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleValue(defaultValue, target), name, usage)

	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = toggleTrueCanonicalValue
	defaultChoice := toggleNoChoice
	if defaultValue {
		defaultChoice = toggleYesChoice
	}
	flag.Usage = FormatChoiceUsage(defaultChoice, []string{toggleYesChoice, toggleNoChoice}, usage)

	toggleRegistryMutex.Lock()
	toggleRegistry[name] = struct{}{}
	toggleRegistryMutex.Unlock()
}

// NormalizeToggleArguments joins "--toggle value" into "--toggle=value" for
// registered toggle flags so the value is not mistaken for a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == longFlagPrefix {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if index+1 < len(arguments) && isBareToggle(current) && isToggleValue(arguments[index+1]) {
			normalized = append(normalized, current+flagValueSeparator+arguments[index+1])
			index++
			continue
		}

		normalized = append(normalized, current)
	}

	return normalized
}

func isBareToggle(argument string) bool {
	if !strings.HasPrefix(argument, longFlagPrefix) || strings.Contains(argument, flagValueSeparator) {
		return false
	}
	name := strings.TrimPrefix(argument, longFlagPrefix)

	toggleRegistryMutex.RLock()
	defer toggleRegistryMutex.RUnlock()
	_, registered := toggleRegistry[name]
	return registered
}

func isToggleValue(argument string) bool {
	if strings.HasPrefix(argument, "-") {
		return false
	}
	_, parseError := ParseToggle(argument)
	return parseError == nil
}

type toggleValue struct {
	currentValue bool
	target       *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{currentValue: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}
