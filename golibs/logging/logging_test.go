// Copyright 2024 The Solaris Authors
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

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	assert.Nil(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel(" Trace ")
	assert.Nil(t, err)
	assert.Equal(t, TRACE, lvl)

	_, err = ParseLevel("verbose")
	assert.NotNil(t, err)
	assert.Equal(t, "WARN", WARN.String())
}

func TestStdLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	old := GetLevel()
	defer SetLevel(old)

	SetLevel(INFO)
	log := NewLogger("test")
	log.Debugf("hidden %d", 1)
	log.Infof("shown %d", 2)
	log.Errorf("shown %d", 3)

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "INFO\ttest: shown 2"))
	assert.True(t, strings.Contains(out, "ERROR\ttest: shown 3"))
	assert.Equal(t, 2, strings.Count(out, "\n"))
}
