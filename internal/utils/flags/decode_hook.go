package flags

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// ToggleDecodeHook converts yes/no style strings into booleans while
// configuration is decoded. Only true literals decode to true; blank and
// unrecognized strings decode to false.
func ToggleDecodeHook() mapstructure.DecodeHookFuncType {
	return func(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
		if sourceType.Kind() != reflect.String || targetType.Kind() != reflect.Bool {
			return data, nil
		}

		parsedValue, parseError := ParseToggle(reflect.ValueOf(data).String())
		if parseError != nil {
			return false, nil
		}
		return parsedValue, nil
	}
}
