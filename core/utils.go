package core

import (
	"reflect"
	"strings"

	"github.com/kat-co/vala"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// IsNotNil is a vala.Checker that accepts any non-nil dependency, struct values included.
func IsNotNil(obtained interface{}, paramName string) vala.Checker {
	return func() (bool, string) {
		ok := obtained != nil
		if ok {
			switch v := reflect.ValueOf(obtained); v.Kind() {
			case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
				ok = !v.IsNil()
			}
		}
		return ok, "Parameter was nil: " + paramName
	}
}
