/*
 * Copyright 2025 tomoncle.
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

package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		"":        logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLog4jFormatterIncludesNameMessageAndSortedFields(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10, DisableColors: true}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "tx committed",
		Data:    logrus.Fields{"table": "livre", "op": "insert"},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 03:04:05.000    INFO"))
	assert.Contains(t, line, "  DATABASE")
	assert.Contains(t, line, ": tx committed op=insert table=livre\n")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DISPATCH"}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "rejected",
		Data:    logrus.Fields{"error": assert.AnError},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "DISPATCH", rec["model"])
	assert.Equal(t, assert.AnError.Error(), rec["fields"].(map[string]interface{})["error"])
}

func TestNewLoggerWritesToConfiguredOutputAndIsRegistered(t *testing.T) {
	var buf bytes.Buffer
	ConfigureConsoleOutput(&buf)
	t.Cleanup(func() { ConfigureConsoleOutput(os.Stdout) })

	l := NewLogger("UTILTEST")
	l.Info("hello")
	assert.Contains(t, buf.String(), "hello")

	require.True(t, SetLoggerLevel("UTILTEST", "error"))
	buf.Reset()
	l.Info("hidden")
	assert.Empty(t, buf.String())

	assert.False(t, SetLoggerLevel("NOPE", "debug"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("MEDIATEK_TEST_STR", "x")
	t.Setenv("MEDIATEK_TEST_BOOL", "true")
	t.Setenv("MEDIATEK_TEST_BAD", "maybe")
	assert.Equal(t, "x", EnvDefaultString("MEDIATEK_TEST_STR", "d"))
	assert.Equal(t, "d", EnvDefaultString("MEDIATEK_TEST_UNSET", "d"))
	assert.True(t, EnvDefaultBool("MEDIATEK_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("MEDIATEK_TEST_BAD", true))
	assert.False(t, EnvDefaultBool("MEDIATEK_TEST_UNSET", false))
}
