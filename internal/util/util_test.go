package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MakeTextList(t *testing.T) {
	testCases := []struct {
		name   string
		items  []string
		expect string
	}{
		{name: "empty", items: nil, expect: ""},
		{name: "one item", items: []string{"apples"}, expect: "apples"},
		{name: "two items", items: []string{"apples", "oranges"}, expect: "apples and oranges"},
		{name: "three items use oxford comma", items: []string{"apples", "oranges", "pears"}, expect: "apples, oranges, and pears"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, MakeTextList(tc.items))
		})
	}
}

func Test_StringSet(t *testing.T) {
	s := NewStringSet()
	assert.True(t, s.Empty())

	s.Add("a")
	s.Add("b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))
	assert.Equal(t, 2, s.Len())

	s.Remove("a")
	assert.False(t, s.Has("a"))
}

func Test_StringSet_UnionIntersectionDifference(t *testing.T) {
	a := NewStringSet(map[string]bool{"x": true, "y": true})
	b := NewStringSet(map[string]bool{"y": true, "z": true})

	union := a.Union(b)
	assert.True(t, union.Has("x"))
	assert.True(t, union.Has("y"))
	assert.True(t, union.Has("z"))

	inter := a.Intersection(b)
	assert.True(t, inter.Has("y"))
	assert.False(t, inter.Has("x"))

	diff := a.Difference(b)
	assert.True(t, diff.Has("x"))
	assert.False(t, diff.Has("y"))
}

func Test_StringSet_Elements(t *testing.T) {
	s := NewStringSet(map[string]bool{"a": true, "b": true, "c": true})
	elems := s.Elements()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, elems)
}

func Test_StringSet_StringOrdered(t *testing.T) {
	s := NewStringSet(map[string]bool{"b": true, "a": true})
	assert.Equal(t, "{a, b}", s.StringOrdered())
}
