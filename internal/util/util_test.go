package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"id", "Id"},
		{"createdAt", "CreatedAt"},
		{"external_id", "ExternalId"},
		{"total-summ", "TotalSumm"},
		{"already.Exported", "AlreadyExported"},
		{"ünïcode", "Ünïcode"},
		{"__", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportName(tt.key))
		})
	}
}

func TestPtr(t *testing.T) {
	v := 3
	p := Ptr(v)
	v = 4
	assert.Equal(t, 3, *p)
}
