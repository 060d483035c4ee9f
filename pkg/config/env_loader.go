/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/internalize/pkg/logger"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")
)

// EnvConfigLoader loads configuration from environment variables.
// It supports nested struct fields using underscore separation.
// For example: INTERNALIZE_NATS_URL maps to config.NATS.URL
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

// NewEnvConfigLoader creates a new environment variable config loader.
func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

// Load implements ConfigLoader by reading from environment variables.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	// A complete JSON config in a single env var wins over field-wise loading.
	if jsonConfig := os.Getenv(e.prefix + "CONFIG_JSON"); jsonConfig != "" {
		if err := json.Unmarshal([]byte(jsonConfig), dst); err != nil {
			return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
		}

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	return e.loadStruct(v, e.prefix)
}

// loadStruct recursively loads a struct from environment variables.
func (e *EnvConfigLoader) loadStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		jsonTag := fieldType.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		fieldName := strings.Split(jsonTag, ",")[0]
		envName := e.buildEnvName(prefix, fieldName)

		if err := e.setFieldValue(field, envName); err != nil {
			if e.logger != nil {
				e.logger.Debug().
					Str("field", fieldName).
					Str("env", envName).
					Err(err).
					Msg("Failed to set field from environment variable")
			}
			// Continue with other fields even if one fails
			continue
		}
	}

	return nil
}

// buildEnvName constructs the environment variable name from prefix and field name.
func (*EnvConfigLoader) buildEnvName(prefix, fieldName string) string {
	envName := strings.ToUpper(fieldName)
	envName = strings.ReplaceAll(envName, ".", "_")

	return prefix + envName
}

// setFieldValue sets a struct field value from an environment variable.
func (e *EnvConfigLoader) setFieldValue(field reflect.Value, envName string) error {
	// Nested structs recurse with an extended prefix.
	if field.Kind() == reflect.Struct {
		return e.loadStruct(field, envName+"_")
	}

	if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}

		return e.loadStruct(field.Elem(), envName+"_")
	}

	envValue := os.Getenv(envName)
	if envValue == "" {
		return nil
	}

	return e.setFieldByKind(field, envName, envValue)
}

// setFieldByKind sets field value based on its reflect.Kind.
func (e *EnvConfigLoader) setFieldByKind(field reflect.Value, envName, envValue string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", envName, err)
		}

		field.SetBool(b)

		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.setIntField(field, envName, envValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(envValue, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value for %s: %w", envName, err)
		}

		field.SetUint(u)

		return nil

	case reflect.Slice:
		return e.setSliceField(field, envName, envValue)

	default:
		// JSON as the fallback for anything structured.
		if err := json.Unmarshal([]byte(envValue), field.Addr().Interface()); err != nil {
			return fmt.Errorf("unsupported type %s for %s: %w", field.Kind(), envName, err)
		}

		return nil
	}
}

// setIntField sets an integer field, with duration-aware handling for
// time.Duration and models.Duration fields.
func (*EnvConfigLoader) setIntField(field reflect.Value, envName, envValue string) error {
	typeName := field.Type().String()
	if typeName == "time.Duration" || typeName == "models.Duration" {
		d, err := time.ParseDuration(envValue)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", envName, err)
		}

		field.SetInt(int64(d))

		return nil
	}

	i, err := strconv.ParseInt(envValue, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %w", envName, err)
	}

	field.SetInt(i)

	return nil
}

// setSliceField sets a slice field value.
func (*EnvConfigLoader) setSliceField(field reflect.Value, envName, envValue string) error {
	// String slices are comma-separated; everything else is JSON.
	if field.Type().Elem().Kind() == reflect.String {
		values := strings.Split(envValue, ",")
		slice := reflect.MakeSlice(field.Type(), len(values), len(values))

		for i, v := range values {
			slice.Index(i).SetString(strings.TrimSpace(v))
		}

		field.Set(slice)

		return nil
	}

	if err := json.Unmarshal([]byte(envValue), field.Addr().Interface()); err != nil {
		return fmt.Errorf("invalid slice value for %s: %w", envName, err)
	}

	return nil
}
