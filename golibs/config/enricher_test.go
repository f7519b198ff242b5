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
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/stretchr/testify/assert"
)

type testB struct {
	IntB    int `json:"ttt"`
	IntBPtr *int
}

type testA struct {
	Field     int
	FieldB    testB
	FieldBPtr *testB
	List      []string
	Str       string `json:"str_alias"`
}

func Test_EnricherApplyKeyValues(t *testing.T) {
	e := NewEnricher(testA{})
	n := e.ApplyKeyValues("teST", "_", map[string]string{"test_list": `["aa", "bb"]`, "TEST_FieldBPtr_ttt": "23", "TEST_FieldB_IntB": "33", "other": "1"})
	assert.Equal(t, 3, n)
	assert.Equal(t, testA{FieldB: testB{IntB: 33}, FieldBPtr: &testB{IntB: 23}, List: []string{"aa", "bb"}}, e.Value())

	ptr := 22
	e.ApplyKeyValues("teST", "_", map[string]string{"test_fieldbptr": `{"ttt": 13, "IntBPtr": 22}`})
	assert.Equal(t, &testB{IntB: 13, IntBPtr: &ptr}, e.Value().FieldBPtr)

	e.ApplyKeyValues("", "_", map[string]string{"fieldbptr_ttt": "42", "str": "hello world"})
	assert.Equal(t, 42, e.Value().FieldBPtr.IntB)
	assert.Equal(t, "hello world", e.Value().Str)

	// unknown and bad values are skipped
	oldValue := e.Value()
	assert.Equal(t, 0, e.ApplyKeyValues("", "_", map[string]string{"_": "some value", "field": "abc"}))
	assert.Equal(t, oldValue, e.Value())
}

func TestEnricher_ApplyEnvVariables(t *testing.T) {
	t.Setenv("ENRTEST_FIELD", "7")
	t.Setenv("ENRTEST_STR_ALIAS", `"quoted"`)
	e := NewEnricher(testA{})
	assert.Equal(t, 2, e.ApplyEnvVariables("enrtest", "_"))
	assert.Equal(t, testA{Field: 7, Str: "quoted"}, e.Value())
}

func TestApplyOther(t *testing.T) {
	e1 := NewEnricher(testA{Field: 1, FieldB: testB{IntB: 2}, Str: "a"})
	e2 := NewEnricher(testA{FieldB: testB{IntB: 3}, FieldBPtr: &testB{IntB: 4}})
	e1.ApplyOther(e2)
	assert.Equal(t, testA{Field: 1, FieldB: testB{IntB: 3}, FieldBPtr: &testB{IntB: 4}, Str: "a"}, e1.Value())
}

func TestNewEnricher_NotStruct(t *testing.T) {
	assert.Panics(t, func() { NewEnricher(1) })
}

func TestEnricher_LoadFromFile(t *testing.T) {
	dir := t.TempDir()

	fn := filepath.Join(dir, "bad.yaml")
	createFile(fn, `sdfkjlafj aldskfjalfdj`)
	ea := NewEnricher(testA{})
	assert.NotNil(t, ea.LoadFromFile(fn))

	assert.True(t, errors.Is(ea.LoadFromFile(filepath.Join(dir, "absent.yaml")), errors.ErrNotExist))
	assert.True(t, errors.Is(ea.LoadFromFile(filepath.Join(dir, "cfg.toml")), errors.ErrInvalid))
	assert.Nil(t, ea.LoadFromFile(""))

	fn = filepath.Join(dir, "goodButEmpty.yaml")
	createFile(fn, `some: 1234`)
	assert.Nil(t, ea.LoadFromFile(fn))
	assert.Equal(t, testA{}, ea.Value())

	fn = filepath.Join(dir, "good.yml")
	createFile(fn, `
fieldb:
    ttt: 2`)
	assert.Nil(t, ea.LoadFromFile(fn))
	assert.Equal(t, testA{FieldB: testB{IntB: 2}}, ea.Value())

	fn = filepath.Join(dir, "good2.json")
	createFile(fn, `{"fieldb": {"ttt": 22}}`)
	assert.Nil(t, ea.LoadFromFile(fn))
	assert.Equal(t, testA{FieldB: testB{IntB: 22}}, ea.Value())
}

func Test_collectPaths(t *testing.T) {
	paths := map[string][]int{}
	collectPaths(reflect.TypeOf(testA{}), "", ".", nil, paths)
	assert.Equal(t, []int{1, 0}, paths["FIELDB.TTT"])
	assert.Equal(t, []int{1, 0}, paths["FIELDB.INTB"])
	assert.Equal(t, []int{2, 1}, paths["FIELDBPTR.INTBPTR"])
	assert.Equal(t, []int{4}, paths["STR_ALIAS"])
}

func Test_isQuoted(t *testing.T) {
	assert.True(t, isQuoted(`"a"`))
	assert.True(t, isQuoted(` "" `))
	assert.False(t, isQuoted(`"`))
	assert.False(t, isQuoted(`a"`))
}

func createFile(name, data string) {
	f, _ := os.Create(name)
	f.WriteString(data)
	f.Close()
}
