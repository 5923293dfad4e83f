package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "abc", "abc"},
		{"Bytes", []byte("raw"), "raw"},
		{"Int", 42, "42"},
		{"Float", 1.5, "1.5"},
		{"Stringer", time.Duration(90) * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"True", true, true},
		{"False", false, false},
		{"One", 1, true},
		{"Zero", int64(0), false},
		{"StringTrue", "TRUE", true},
		{"StringOn", "on", true},
		{"StringYes", " yes ", true},
		{"StringOther", "nope", false},
		{"Bytes", []byte("1"), true},
		{"Empty", "", false},
		{"Nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBool(tt.in))
		})
	}
}
