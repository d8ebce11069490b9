package symbol_test

import (
	"testing"

	"github.com/grailbio/modu/internal/symbol"
	"github.com/stretchr/testify/assert"
)

func TestInternDedups(t *testing.T) {
	symbol.Reset()
	id0 := symbol.Intern("foo")
	id1 := symbol.Intern("bar")
	id2 := symbol.Intern("foo")
	assert.Equal(t, id0, id2)
	assert.NotEqual(t, id0, id1)
	assert.Equal(t, "foo", id0.Str())
	assert.Equal(t, "bar", id1.Str())
}

func TestInvalidIsZero(t *testing.T) {
	assert.Equal(t, symbol.ID(0), symbol.Invalid)
}
