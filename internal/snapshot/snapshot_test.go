package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/ast"
)

func sampleRecord() *Record {
	return &Record{
		Input:    "1+2",
		Tree:     ast.Binary("+", ast.Number("1"), ast.Number("2")),
		Result:   ast.Number("3"),
		Tex:      "3",
		Strategy: "numeric-evaluation",
		Approx:   "3",
	}
}

func Test_Record_BinaryRoundTrip(t *testing.T) {
	r := sampleRecord()

	data, err := r.MarshalBinary()
	assert.NoError(t, err)

	var out Record
	err = out.UnmarshalBinary(data)
	assert.NoError(t, err)

	assert.Equal(t, r.Input, out.Input)
	assert.Equal(t, r.Tex, out.Tex)
	assert.Equal(t, r.Strategy, out.Strategy)
	assert.Equal(t, r.Approx, out.Approx)
	assert.True(t, r.Tree.Equal(out.Tree))
	assert.True(t, r.Result.Equal(out.Result))
}

func Test_Record_BinaryRoundTrip_nilNodes(t *testing.T) {
	r := &Record{Input: "noop", Strategy: "fallback"}

	data, err := r.MarshalBinary()
	assert.NoError(t, err)

	var out Record
	err = out.UnmarshalBinary(data)
	assert.NoError(t, err)
	assert.Nil(t, out.Tree)
	assert.Nil(t, out.Result)
}

func Test_EncodeDecode(t *testing.T) {
	r := sampleRecord()

	data, err := Encode(r)
	assert.NoError(t, err)

	out, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, r.Input, out.Input)
	assert.True(t, r.Tree.Equal(out.Tree))
}

func Test_UnmarshalBinary_truncated(t *testing.T) {
	r := sampleRecord()
	data, err := r.MarshalBinary()
	assert.NoError(t, err)

	var out Record
	err = out.UnmarshalBinary(data[:2])
	assert.Error(t, err)
}
