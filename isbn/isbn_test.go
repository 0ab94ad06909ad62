package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9784799731161", Normalize("978-4-7997-3116-1"))
	assert.Equal(t, "020161622X", Normalize("0-201-61622-x"))
	assert.Equal(t, "0306406152", Normalize(" 0 306 40615 2 "))
	assert.Equal(t, "", Normalize(""))
}

func TestTo13(t *testing.T) {
	assert.Equal(t, "9780306406157", To13("0306406152"))
	assert.Equal(t, "9780140449112", To13("0140449116"))
	assert.Equal(t, "9780201616224", To13("020161622X"))
	assert.Equal(t, "", To13(""))
	assert.Equal(t, "", To13("123"))
	assert.Equal(t, "", To13("abcdefghij"))
	assert.Equal(t, "", To13("0306406153"))
}

func TestTo10(t *testing.T) {
	assert.Equal(t, "0306406152", To10("9780306406157"))
	assert.Equal(t, "0140449116", To10("9780140449112"))
	assert.Equal(t, "020161622X", To10("9780201616224"))
	assert.Equal(t, "", To10(""))
	assert.Equal(t, "", To10("123"))
	assert.Equal(t, "", To10("9790000000000"))
	assert.Equal(t, "", To10("978abcdefghi"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid10("020161622X"))
	assert.False(t, Valid10("0201616220"))
	assert.False(t, Valid10("X201616220"))
	assert.True(t, Valid13("9780306406157"))
	assert.False(t, Valid13("9780306406158"))
	assert.False(t, Valid13("978030640615"))
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent("0-306-40615-2", "978-0-306-40615-7"))
	assert.True(t, Equivalent("9780306406157", "978 0306 40615 7"))
	assert.True(t, Equivalent("not-an-isbn", "notanisbn"))
	assert.False(t, Equivalent("9780306406157", "9780140449112"))
	assert.False(t, Equivalent("", ""))
	assert.False(t, Equivalent("-", ""))
}

func TestRoundTrip(t *testing.T) {
	assert.Equal(t, "0306406152", To10(To13("0306406152")))
	assert.Equal(t, "0140449116", To10(To13("0140449116")))
	assert.Equal(t, "020161622X", To10(To13("020161622X")))
}
