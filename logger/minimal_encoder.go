package logger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorTime      = "\x1b[38;5;107m"
	colorComponent = "\x1b[38;5;208m"
	colorID        = "\x1b[38;5;109m"
	colorNumber    = "\x1b[38;5;108m"
	colorWarn      = "\x1b[38;5;179m"
	colorWarnBg    = "\x1b[48;5;58m"
	colorError     = "\x1b[38;5;167m"
	colorErrorBg   = "\x1b[48;5;52m"
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  d.worker  Artifact rendered  serialize_orders_Order 1843B"
type minimalEncoder struct {
	zapcore.Encoder // field serialization for the embedded JSON encoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level is only shown for WARN and above
	if ent.Level >= zapcore.WarnLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorErrorBg + colorError + "ERROR" + colorReset
	default:
		return colorBold + colorErrorBg + colorError + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: driver.worker -> d.worker
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		return strconv.FormatBool(field.Integer == 1)
	case zapcore.Float64Type:
		return strconv.FormatFloat(math.Float64frombits(uint64(field.Integer)), 'g', -1, 64)
	case zapcore.Float32Type:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(field.Integer))), 'g', -1, 32)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	return ""
}

// extractFieldValues pulls just the values of well-known fields, in the order
// they were logged. Unknown keys are rendered as key=value.
func extractFieldValues(fields []zapcore.Field) string {
	var values []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}

		switch field.Key {
		case FieldFunctionID, FieldTypeID, FieldRunID:
			values = append(values, colorID+val+colorReset)
		case FieldDurationMS:
			values = append(values, colorNumber+val+colorReset+"ms")
		case FieldSize:
			values = append(values, colorNumber+val+colorReset+"B")
		case FieldCount:
			values = append(values, colorNumber+val+colorReset)
		default:
			values = append(values, field.Key+"="+val)
		}
	}

	return strings.Join(values, " ")
}
