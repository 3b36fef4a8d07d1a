package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrNotStruct = errors.New("env: value must be a pointer to a struct")

var durationType = reflect.TypeOf(time.Duration(0))

// Marshal collects KEY=value pairs from the `env` tags of a struct pointer.
// Zero values are skipped so that envDefault keeps working on the next load.
// Nested structs are walked recursively.
func Marshal(c any) (map[string]string, error) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}

	out := make(map[string]string)
	collect(v.Elem(), out)
	return out, nil
}

// MarshalEnv renders one or more config structs as sorted .env content.
func MarshalEnv(configs ...any) (string, error) {
	vars := make(map[string]string)
	for _, c := range configs {
		m, err := Marshal(c)
		if err != nil {
			return "", err
		}
		for k, val := range m {
			vars[k] = val
		}
	}
	return Render(vars), nil
}

// Render formats vars as KEY=value lines sorted by key. Values with spaces or
// quotes are double-quoted.
func Render(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(quote(vars[k]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteFile stores vars at path with owner-only permissions. An existing file
// is never overwritten.
func WriteFile(path string, vars map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create env directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("create env file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(Render(vars)); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

func collect(v reflect.Value, out map[string]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		val := v.Field(i)
		if val.Kind() == reflect.Struct && field.Type != durationType {
			collect(val, out)
			continue
		}

		// "KEY,required,notEmpty" or "KEY"
		key := strings.Split(field.Tag.Get("env"), ",")[0]
		if key == "" || isZeroValue(val) {
			continue
		}
		out[key] = formatValue(val)
	}
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil() || (v.Kind() == reflect.Slice && v.Len() == 0)
	default:
		return v.IsZero()
	}
}

func formatValue(v reflect.Value) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func quote(s string) string {
	if !strings.ContainsAny(s, " \t\"'#") {
		return s
	}
	return strconv.Quote(s)
}
