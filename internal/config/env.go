package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// applyEnvOverrides copies every set environment variable named by an `env`
// tag into the matching field of cfg, descending into nested sections.
func applyEnvOverrides(cfg interface{}) error {
	section := reflect.Indirect(reflect.ValueOf(cfg))
	if section.Kind() != reflect.Struct {
		return nil
	}
	return overrideSection(section, "")
}

func overrideSection(section reflect.Value, prefix string) error {
	sectionType := section.Type()

	for i := 0; i < section.NumField(); i++ {
		field := section.Field(i)
		meta := sectionType.Field(i)
		path := prefix + meta.Name

		// Nested sections (API, Server, ...) carry their own tags
		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := overrideSection(field, path+"."); err != nil {
				return err
			}
			continue
		}

		name, ok := meta.Tag.Lookup("env")
		if !ok || name == "" {
			continue
		}
		raw, set := os.LookupEnv(name)
		if !set {
			continue
		}

		if err := assign(field, raw); err != nil {
			return fmt.Errorf("env %s (%s): %w", name, path, err)
		}
	}

	return nil
}

// assign parses raw into field according to the field's type
func assign(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	// time.Duration is an int64, so it has to be checked before the kinds
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", raw, err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		field.Set(reflect.ValueOf(splitList(raw)))

	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}

	return nil
}

// splitList reads a comma separated list, dropping blank entries
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
