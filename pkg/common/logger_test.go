package common

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/medical-device-tracker/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestCategoryLogger(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	GetCategoryLogger(LoggerNameTracker, LoggerCategoryContract).Info("Contract renewed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "tracker_core", entry["logger"])
	assert.Equal(t, "contract", entry["category"])
	assert.Equal(t, "Contract renewed", entry["msg"])
}

func TestFilterDoesNotTouchInput(t *testing.T) {
	items := []int{1, 2, 3, 4}
	even := Filter(items, func(i int) bool { return i%2 == 0 })

	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4}, items)
	assert.Equal(t, []string{"1", "2"}, Mapper([]int{1, 2}, func(i int) string { return string(rune('0' + i)) }))
	assert.Equal(t, 10, Reducer(items, func(acc int, i int) int { return acc + i }, 0))
}
