package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		name    string
		format  func(string) string
		icon    string
		message string
	}{
		{"error", FormatError, ErrorIcon, "could not open the charge database"},
		{"success", FormatSuccess, SuccessIcon, "import complete"},
		{"warning", FormatWarning, WarningIcon, "skipped malformed rows"},
		{"title", FormatTitle, ChartIcon, "Recurring patterns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format(tt.message)
			assert.Contains(t, out, tt.message)
			assert.Contains(t, out, tt.icon)
		})
	}
}
