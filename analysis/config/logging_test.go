// Copyright the atomizer authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"strings"
	"testing"
)

func logAtAllLevels(level LogLevel) string {
	cfg := NewDefault()
	cfg.LogLevel = int(level)
	logger := NewLogGroup(cfg)
	var buf bytes.Buffer
	logger.SetAllOutput(&buf)
	logger.Tracef("trace message")
	logger.Debugf("debug message")
	logger.Infof("info message")
	logger.Warnf("warn message")
	logger.Errorf("error message")
	return buf.String()
}

func TestLogGroupLevelGating(t *testing.T) {
	out := logAtAllLevels(InfoLevel)
	for _, wanted := range []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
		if !strings.Contains(out, wanted) {
			t.Errorf("expected %q in output:\n%s", wanted, out)
		}
	}
	for _, unwanted := range []string{"debug message", "trace message"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("did not expect %q at info level:\n%s", unwanted, out)
		}
	}
}

func TestLogGroupTraceLevelPrintsEverything(t *testing.T) {
	out := logAtAllLevels(TraceLevel)
	for _, wanted := range []string{"trace message", "debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(out, wanted) {
			t.Errorf("expected %q in output:\n%s", wanted, out)
		}
	}
}

func TestLogsDebug(t *testing.T) {
	cfg := NewDefault()
	cfg.LogLevel = int(DebugLevel)
	if !NewLogGroup(cfg).LogsDebug() {
		t.Error("a debug-level group must report that it logs debug messages")
	}
	cfg.LogLevel = int(InfoLevel)
	if NewLogGroup(cfg).LogsDebug() {
		t.Error("an info-level group must not report that it logs debug messages")
	}
}
