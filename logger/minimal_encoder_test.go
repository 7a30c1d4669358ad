package logger

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := newMinimalEncoder().EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

// The minimal encoder must never silently drop a field.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "driver",
		Message:    "Artifact rendered",
	}

	out := encode(t, entry,
		zap.String(FieldFunctionID, "serialize_orders_Order"),
		zap.Int(FieldSize, 1843),
		zap.Int64(FieldDurationMS, 12),
		zap.Bool("dry_run", true),
		zap.Float64("ratio", 0.5),
		zap.String("random_field_xyz", "important_data"),
		zap.Error(errors.New("boom")),
	)

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "driver")
	assert.Contains(t, out, "Artifact rendered")
	assert.Contains(t, out, "serialize_orders_Order")
	assert.Contains(t, out, "1843B")
	assert.Contains(t, out, "12ms")
	assert.Contains(t, out, "dry_run=true")
	assert.Contains(t, out, "ratio=0.5")
	assert.Contains(t, out, "random_field_xyz=important_data")
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "INFO")
}

func TestMinimalEncoderLevels(t *testing.T) {
	warn := encode(t, zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "guard truncated"})
	assert.Contains(t, warn, "WARN")

	errOut := encode(t, zapcore.Entry{Level: zapcore.ErrorLevel, Time: time.Now(), Message: "resolve failed"})
	assert.Contains(t, errOut, "ERROR")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "d.worker", abbreviateName("driver.worker"))
	assert.Equal(t, "codegen", abbreviateName("codegen"))
	assert.Equal(t, "", abbreviateName(""))
}
