package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2599), MinorUnits(25.99))
	assert.Equal(t, int64(0), MinorUnits(0))
	assert.Equal(t, int64(10), MinorUnits(0.1))
	// Float noise must round, not truncate: 19.99*100 is 1998.999... in IEEE754.
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(30), MinorUnits(0.1+0.2))
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, 25.99, MajorUnits(2599))
	assert.Equal(t, 0.0, MajorUnits(0))
}

func TestNewOrderNumber(t *testing.T) {
	n := NewOrderNumber()
	assert.True(t, strings.HasPrefix(n, "ORD-"))

	parts := strings.Split(n, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[1], 8, "date part")
	assert.Len(t, parts[2], 6, "random part")
}
