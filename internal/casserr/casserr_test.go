package casserr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SyntaxError_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    *SyntaxError
		expect string
	}{
		{name: "basic message", err: NewSyntaxError("unexpected end of input", 4), expect: "syntax error at 4: unexpected end of input"},
		{name: "zero position", err: NewSyntaxError("bad token", 0), expect: "syntax error at 0: bad token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.err.Error())
			assert.Equal(t, tc.err.Pos, tc.err.Position())
		})
	}
}

func Test_SyntaxError_SourceLineWithCursor(t *testing.T) {
	testCases := []struct {
		name   string
		err    *SyntaxError
		source string
		expect string
	}{
		{name: "no source attached", err: NewSyntaxError("bad", 2), expect: ""},
		{name: "cursor at position", err: NewSyntaxError("bad", 2), source: "1+*2", expect: "1+*2\n  ^"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := tc.err
			if tc.source != "" {
				e = e.WithSource(tc.source)
			}
			assert.Equal(t, tc.expect, e.SourceLineWithCursor())
		})
	}
}

func Test_EvaluationError_Error(t *testing.T) {
	err := NewEvaluationError("division by zero", 7)
	assert.Equal(t, "division by zero", err.Error())
	assert.Equal(t, 7, err.Position())
}
