package core

import (
	"testing"

	"github.com/kat-co/vala"
	"github.com/stretchr/testify/assert"
)

type valueLogger struct{}

func (valueLogger) Debug(string, ...interface{}) {}
func (valueLogger) Info(string, ...interface{})  {}
func (valueLogger) Warn(string, ...interface{})  {}
func (valueLogger) Error(string, ...interface{}) {}
func (valueLogger) Fatal(string, ...interface{}) {}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Mid Term", CleanString("  Mid Term \n"))
	assert.Equal(t, "cs101", CleanString(" CS101 ", true))
}

func TestIsNotNil(t *testing.T) {
	var nilLogger *valueLogger
	var nilIface Logger

	tests := []struct {
		name   string
		value  interface{}
		wantOk bool
	}{
		{name: "value receiver struct", value: valueLogger{}, wantOk: true},
		{name: "struct in interface", value: Logger(valueLogger{}), wantOk: true},
		{name: "pointer", value: &valueLogger{}, wantOk: true},
		{name: "nil interface", value: nilIface, wantOk: false},
		{name: "nil pointer", value: nilLogger, wantOk: false},
		{name: "nil map", value: map[string]int(nil), wantOk: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ok bool
			assert.NotPanics(t, func() { ok, _ = IsNotNil(tc.value, "logger")() })
			assert.Equal(t, tc.wantOk, ok)
		})
	}
}

func TestIsNotNil_checkAndPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		vala.BeginValidation().Validate(IsNotNil(valueLogger{}, "logger")).CheckAndPanic()
	})
	assert.Panics(t, func() {
		vala.BeginValidation().Validate(IsNotNil(nil, "logger")).CheckAndPanic()
	})
}
