package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		ok   bool
	}{
		{"english", "en", true},
		{"English", "en", true},
		{" Mandarin ", "zh-CN", true},
		{"chinese simplified", "zh-CN", true},
		{"chinese traditional", "zh-TW", true},
		{"klingon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := LanguageCode(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}
