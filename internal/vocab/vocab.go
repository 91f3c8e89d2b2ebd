// Package vocab defines the closed vocabularies of the ASVspoof2017 corpus.
//
// Every enumerated column of the database has a Go type here. Values coming
// from protocol files or callers are turned into these types with the Parse
// functions, which reject anything outside the fixed set. The string form of
// each value is exactly what is stored in the database.
package vocab

import (
	"fmt"
	"strings"

	"github.com/asvspoof/asvdb/internal/util"
)

// Undefined is the textual form of the unspecified variant shared by several
// vocabularies.
const Undefined = "undefined"

// NotApplicable is the placeholder protocol files use for an absent code.
const NotApplicable = "-"

// InvalidValueError reports a value outside its vocabulary.
type InvalidValueError struct {
	Param string
	Value string
	Valid []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q: valid values are %s", e.Param, e.Value, strings.Join(e.Valid, ", "))
}

// Is makes InvalidValueError match util.ErrInvalidInput.
func (e *InvalidValueError) Is(target error) bool {
	return target == util.ErrInvalidInput
}

// enum is a fixed, ordered set of strings. Index 0 is the first declared value.
type enum struct {
	param  string
	values []string
}

func newEnum(param string, values ...string) enum {
	return enum{param: param, values: values}
}

func (e enum) index(s string) (int, error) {
	for i, v := range e.values {
		if v == s {
			return i, nil
		}
	}
	return 0, &InvalidValueError{Param: e.param, Value: s, Valid: e.Values()}
}

func (e enum) name(i int) string {
	if i < 0 || i >= len(e.values) {
		return fmt.Sprintf("%s(%d)", e.param, i)
	}
	return e.values[i]
}

// Values returns a copy of the valid set in declaration order.
func (e enum) Values() []string {
	out := make([]string, len(e.values))
	copy(out, e.values)
	return out
}

// codes builds "undefined, <prefix>01 .. <prefix>NN".
func codes(prefix string, n int) []string {
	out := []string{Undefined}
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s%02d", prefix, i))
	}
	return out
}

// Validate checks every value against valid and returns the set to filter on.
// Empty strings are dropped; when nothing is left the result is nil, meaning
// no restriction.
func Validate(param string, values []string, valid []string) ([]string, error) {
	values = NonEmpty(values)
	if len(values) == 0 {
		return nil, nil
	}
	allowed := make(map[string]bool, len(valid))
	for _, v := range valid {
		allowed[v] = true
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !allowed[v] {
			return nil, &InvalidValueError{Param: param, Value: v, Valid: append([]string(nil), valid...)}
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

// NonEmpty returns values without its empty strings.
func NonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
