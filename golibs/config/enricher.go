// Copyright 2023 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/logging"
)

// Enricher keeps a structure value of the type T and allows to build it up
// from several sources: a YAML or JSON file, another Enricher and the
// environment variables.
//
// The following contract is applied to the type T:
//   - only the exported fields are updated
//   - a field may have a JSON tag, its name is an alias of the field, so
//     FieldA int `json:"abc"` may be addressed either as "fieldA" or "abc"
//   - the names are case-insensitive
//   - the files are read with the same JSON tags
type Enricher[T any] struct {
	log logging.Logger
	val T
}

// NewEnricher constructs new Enricher for the type T, which must be a struct
func NewEnricher[T any](val T) *Enricher[T] {
	tp := reflect.TypeOf(val)
	if tp == nil || tp.Kind() != reflect.Struct {
		panic(fmt.Sprintf("only structs are acceptable in the Enricher, but got %v", tp))
	}
	e := &Enricher[T]{val: val}
	e.log = logging.NewLogger("config.enricher." + tp.Name())
	return e
}

// LoadFromFile reads the value from the YAML (.yaml, .yml) or JSON (.json)
// file. The format is defined by the file extension. Empty fileName is
// ignored. If the file doesn't exist, errors.ErrNotExist is returned.
func (e *Enricher[T]) LoadFromFile(fileName string) error {
	if fileName == "" {
		e.log.Infof("no file name is provided, skip loading")
		return nil
	}
	var unmarshal func([]byte, any) error
	switch fn := strings.ToLower(strings.TrimSpace(fileName)); {
	case strings.HasSuffix(fn, ".yaml"), strings.HasSuffix(fn, ".yml"):
		unmarshal = func(buf []byte, v any) error { return yaml.Unmarshal(buf, v) }
	case strings.HasSuffix(fn, ".json"):
		unmarshal = json.Unmarshal
	default:
		return fmt.Errorf("cannot recognize file format %s, expecting .json or .yaml: %w", fileName, errors.ErrInvalid)
	}

	e.log.Infof("reading %s", fileName)
	buf, err := os.ReadFile(fileName)
	if os.IsNotExist(err) {
		return fmt.Errorf("could not read file %s: %w", fileName, errors.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("could not read file %s: %w", fileName, err)
	}
	if err := unmarshal(buf, &e.val); err != nil {
		return fmt.Errorf("could not unmarshal file %s: %w", fileName, err)
	}
	return nil
}

// ApplyOther overwrites the current value by all the non-zero fields of the
// other's value. Structs and pointers to structs are merged field by field.
func (e *Enricher[T]) ApplyOther(other *Enricher[T]) {
	mergeValues(reflect.ValueOf(&other.val).Elem(), reflect.ValueOf(&e.val).Elem())
}

// ApplyEnvVariables applies the environment variables which names start from
// prefix followed by sep. The rest of the name is the path to the field with
// the names separated by sep. For the prefix "LRUKV" and sep "_" the
// variable LRUKV_CACHE_CAPACITY sets the field Cache.Capacity.
//
// The values of non-string fields must be JSON values, so a slice can be
// set as LRUKV_LIST='["a", "b"]'. It returns the number of fields set.
func (e *Enricher[T]) ApplyEnvVariables(prefix, sep string) int {
	env := make(map[string]string)
	for _, v := range os.Environ() {
		if k, val, ok := strings.Cut(v, "="); ok {
			env[k] = val
		}
	}
	return e.ApplyKeyValues(prefix, sep, env)
}

// ApplyKeyValues applies the key-value pairs the same way ApplyEnvVariables
// does it. It returns the number of fields set.
func (e *Enricher[T]) ApplyKeyValues(prefix, sep string, keyValues map[string]string) int {
	sep = strings.ToUpper(sep)
	pfx := ""
	if prefix != "" {
		pfx = strings.ToUpper(prefix) + sep
	}
	paths := make(map[string][]int)
	collectPaths(reflect.TypeOf(e.val), "", sep, nil, paths)
	applied := 0
	for key, value := range keyValues {
		k := strings.ToUpper(key)
		if !strings.HasPrefix(k, pfx) {
			continue
		}
		idx, ok := paths[k[len(pfx):]]
		if !ok {
			e.log.Debugf("the key=%s doesn't match any field, skip it", key)
			continue
		}
		if err := setByString(fieldByIndex(reflect.ValueOf(&e.val).Elem(), idx), value); err != nil {
			e.log.Warnf("could not apply %s=%q: %s", key, value, err)
			continue
		}
		e.log.Infof("applied %s", key)
		applied++
	}
	return applied
}

// Value returns the enricher current value
func (e *Enricher[T]) Value() T {
	return e.val
}

// collectPaths registers every field of the struct type tp by its name and
// alias paths, the names are upper-cased and joined with sep.
func collectPaths(tp reflect.Type, pfx, sep string, idx []int, paths map[string][]int) {
	for i := 0; i < tp.NumField(); i++ {
		f := tp.Field(i)
		if !f.IsExported() {
			continue
		}
		fIdx := append(append([]int{}, idx...), i)
		names := []string{strings.ToUpper(f.Name)}
		if alias, _, _ := strings.Cut(f.Tag.Get("json"), ","); alias != "" && alias != "-" {
			names = append(names, strings.ToUpper(alias))
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		for _, n := range names {
			p := pfx + n
			paths[p] = fIdx
			if ft.Kind() == reflect.Struct {
				collectPaths(ft, p+sep, sep, fIdx, paths)
			}
		}
	}
}

// fieldByIndex walks to the field allocating the nil pointers on the way
func fieldByIndex(v reflect.Value, idx []int) reflect.Value {
	for _, i := range idx {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

func mergeValues(from, to reflect.Value) {
	if from.IsZero() {
		return
	}
	switch from.Kind() {
	case reflect.Ptr:
		if from.Elem().Kind() != reflect.Struct {
			to.Set(from)
			return
		}
		if to.IsNil() {
			to.Set(reflect.New(to.Type().Elem()))
		}
		mergeValues(from.Elem(), to.Elem())
	case reflect.Struct:
		for i := 0; i < from.NumField(); i++ {
			if from.Type().Field(i).IsExported() {
				mergeValues(from.Field(i), to.Field(i))
			}
		}
	default:
		to.Set(from)
	}
}

// setByString assigns s to the field. Strings are taken as is, unless they
// are quoted, everything else is expected in JSON.
func setByString(field reflect.Value, s string) error {
	if s == "" {
		return nil
	}
	tp := field.Type()
	isStr := tp.Kind() == reflect.String || (tp.Kind() == reflect.Ptr && tp.Elem().Kind() == reflect.String)
	if isStr && !isQuoted(s) {
		s = strconv.Quote(s)
	}
	obj := reflect.New(tp)
	if err := json.Unmarshal([]byte(s), obj.Interface()); err != nil {
		return fmt.Errorf("%s is not a valid %s: %w", s, tp, errors.ErrInvalid)
	}
	field.Set(obj.Elem())
	return nil
}

func isQuoted(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}
