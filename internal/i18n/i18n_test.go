package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Default(t *testing.T) {
	table, err := Default()
	assert.NoError(t, err)
	assert.Equal(t, "cas> ", table.Lookup("prompt"))
}

func Test_Load(t *testing.T) {
	data := []byte(`
[messages]
greeting = "hello, %s"
`)
	table, err := Load(data)
	assert.NoError(t, err)
	assert.Equal(t, "hello, world", table.Lookup("greeting", "world"))
}

func Test_Load_malformedTOML(t *testing.T) {
	_, err := Load([]byte("not valid toml [["))
	assert.Error(t, err)
}

func Test_Lookup(t *testing.T) {
	table := &Table{Messages: map[string]string{
		"plain":     "hello",
		"with-args": "hello, %s",
	}}

	testCases := []struct {
		name   string
		key    string
		args   []interface{}
		expect string
	}{
		{name: "no args", key: "plain", expect: "hello"},
		{name: "with args", key: "with-args", args: []interface{}{"world"}, expect: "hello, world"},
		{name: "missing key falls back to the key itself", key: "nonexistent", expect: "nonexistent"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, table.Lookup(tc.key, tc.args...))
		})
	}
}

func Test_Lookup_nilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, "some-key", table.Lookup("some-key"))
}

func Test_Merge(t *testing.T) {
	base := &Table{Messages: map[string]string{"a": "1", "b": "2"}}
	override := &Table{Messages: map[string]string{"b": "overridden", "c": "3"}}

	merged := base.Merge(override)
	assert.Equal(t, "1", merged.Lookup("a"))
	assert.Equal(t, "overridden", merged.Lookup("b"))
	assert.Equal(t, "3", merged.Lookup("c"))

	// base itself must not be mutated
	assert.Equal(t, "2", base.Lookup("b"))
}

func Test_Merge_nilOther(t *testing.T) {
	base := &Table{Messages: map[string]string{"a": "1"}}
	merged := base.Merge(nil)
	assert.Equal(t, "1", merged.Lookup("a"))
}
