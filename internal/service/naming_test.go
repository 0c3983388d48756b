package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docinsight/internal/service"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"pdf under prefix", "bronze/", "bronze/b.pdf", "b"},
		{"only last extension", "bronze/", "bronze/report.v2.pdf", "report.v2"},
		{"no extension", "bronze/", "bronze/notes", "notes"},
		{"nested folder", "bronze/", "bronze/2024/q3.pdf", "2024/q3"},
		{"folder marker", "bronze/", "bronze/", ""},
		{"nested folder marker", "bronze/", "bronze/2024/", ""},
		{"empty prefix", "", "a.pdf", "a"},
		{"dot in folder only", "bronze/", "bronze/v1.0/readme", "v1.0/readme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.NormalizeKey(tt.prefix, tt.key))
		})
	}
}

func TestDestinationKey(t *testing.T) {
	assert.Equal(t, "silver/report_analysis.pdf", service.DestinationKey("silver/", "report", ""))
	assert.Equal(t, "silver/report.summary.pdf", service.DestinationKey("silver/", "report", ".summary.pdf"))
	assert.Equal(t, "silver/2024/q3_analysis.pdf", service.DestinationKey("silver/", service.NormalizeKey("bronze/", "bronze/2024/q3.pdf"), ""))
}
