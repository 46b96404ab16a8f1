package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	for _, ok := range []string{"ihram-001", "a", "ORD_1"} {
		_, got := ID(ok)
		assert.True(t, got, ok)
	}
	for _, bad := range []string{"", " ", "a b", "../etc", "x;drop"} {
		_, got := ID(bad)
		assert.False(t, got, bad)
	}
}

func TestFlag(t *testing.T) {
	s, ok := Flag(" payment_info_seen ")
	assert.True(t, ok)
	assert.Equal(t, "payment_info_seen", s)

	for _, bad := range []string{"", "Payment", "1abc", "has-dash", "a very long flag name that goes on and on"} {
		_, ok := Flag(bad)
		assert.False(t, ok, bad)
	}
}

func TestStock(t *testing.T) {
	n, ok := Stock(" 12 ")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = Stock("-1")
	assert.False(t, ok)
	_, ok = Stock("ten")
	assert.False(t, ok)
}

func TestQAndPassword(t *testing.T) {
	q, ok := Q("  kurma ajwa ")
	assert.True(t, ok)
	assert.Equal(t, "kurma ajwa", q)

	_, ok = Q("<script>")
	assert.False(t, ok)

	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
}
