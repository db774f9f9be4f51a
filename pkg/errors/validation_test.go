package errors

import (
	"strings"
	"testing"
)

func TestValidateGraph6Text(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		wantErr bool
	}{
		{"valid small", "Bw", 0, false},
		{"valid with newline", "Bw\n", 0, false},
		{"valid with header", ">>graph6<<Bw", 0, false},

		{"empty", "", 0, true},
		{"only whitespace", "  \n", 0, true},
		{"too long", strings.Repeat("?", 11), 10, true},
		{"embedded newline", "B\nw", 0, true},
		{"null byte", "B\x00w", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraph6Text(tt.input, tt.maxLen)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraph6Text(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateGraph6Text(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateSelectorText(t *testing.T) {
	if err := ValidateSelectorText("0, 1-2"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := ValidateSelectorText("0\x001"); err == nil {
		t.Error("null byte should be rejected")
	}
	if err := ValidateSelectorText(strings.Repeat("1,", 64<<10)); err == nil {
		t.Error("oversized expression should be rejected")
	}
}
