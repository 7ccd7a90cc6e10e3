// Package flagutil decodes flag value conventions, notably the
// search-function syntax "uniform(min, max)" used by batch
// optimizers.
package flagutil

import (
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// ErrNotFunction is returned when a value does not use function
// syntax. Callers typically fall back to treating the value as a
// literal.
var ErrNotFunction = fmt.Errorf("not a function")

// ParseFunction parses "name(arg1, arg2, ...)" into the function name
// and its typed arguments. The anonymous form "(arg1, arg2)" yields an
// empty name. Arguments decode as YAML scalars, so numbers, booleans
// and strings come back typed.
func ParseFunction(val string) (string, []interface{}, error) {
	s := strings.TrimSpace(val)
	if !strings.HasSuffix(s, ")") {
		return "", nil, ErrNotFunction
	}
	open := strings.Index(s, "(")
	if open == -1 {
		return "", nil, ErrNotFunction
	}
	name := strings.TrimSpace(s[:open])
	if strings.ContainsAny(name, " \t") {
		return "", nil, ErrNotFunction
	}
	argList := s[open+1 : len(s)-1]
	args, err := parseArgs(argList)
	if err != nil {
		return "", nil, fmt.Errorf("parsing %q: %w", val, err)
	}
	return name, args, nil
}

func parseArgs(argList string) ([]interface{}, error) {
	if strings.TrimSpace(argList) == "" {
		return nil, nil
	}
	parts := strings.Split(argList, ",")
	args := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty argument")
		}
		var arg interface{}
		if err := yaml.Unmarshal([]byte(part), &arg); err != nil {
			return nil, fmt.Errorf("argument %q: %v", part, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

// FormatFunction renders a function name and arguments back to the
// "name(arg1, arg2)" form.
func FormatFunction(name string, args []interface{}) string {
	strArgs := make([]string, len(args))
	for i, arg := range args {
		strArgs[i] = fmt.Sprintf("%v", arg)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(strArgs, ", "))
}

// IsNumber reports whether a decoded argument is an int or a float.
func IsNumber(arg interface{}) bool {
	switch arg.(type) {
	case int, int64, float64:
		return true
	default:
		return false
	}
}

// AsFloat converts a numeric argument to float64.
func AsFloat(arg interface{}) (float64, bool) {
	switch v := arg.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
