package keymap

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// ApplyOverrides replaces the keys of key.Binding fields in the struct km
// points to. Override names are the snake_case field names, so
// overrides["toggle_default_sink"] replaces km.ToggleDefaultSink. Embedded
// structs are processed recursively; help descriptions are kept.
func ApplyOverrides(km interface{}, overrides map[string][]string) {
	if overrides == nil {
		return
	}

	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	applyOverridesRecursive(v, overrides)
}

func applyOverridesRecursive(v reflect.Value, overrides map[string][]string) {
	t := v.Type()
	bindingType := reflect.TypeOf(key.Binding{})

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if fieldType.Anonymous && field.Kind() == reflect.Struct {
			applyOverridesRecursive(field, overrides)
			continue
		}

		if fieldType.Type != bindingType {
			continue
		}

		if keys, ok := overrides[camelToSnake(fieldType.Name)]; ok && len(keys) > 0 {
			helpDesc := field.Interface().(key.Binding).Help().Desc
			newBinding := key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(keys[0], helpDesc),
			)
			field.Set(reflect.ValueOf(newBinding))
		}
	}
}

// camelToSnake converts a CamelCase field name to snake_case.
func camelToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
