package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDryDayPool_TakeAfter(t *testing.T) {
	p := newDryDayPool()
	for _, d := range []int{9, 2, 5, 7} {
		p.Add(d)
	}
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, []int{2, 5, 7, 9}, p.Days())

	day, ok := p.TakeAfter(5)
	assert.True(t, ok)
	assert.Equal(t, 7, day, "must be strictly after")

	day, ok = p.TakeAfter(0)
	assert.True(t, ok)
	assert.Equal(t, 2, day)

	_, ok = p.TakeAfter(9)
	assert.False(t, ok)

	assert.Equal(t, []int{5, 9}, p.Days())
}

func TestDryDayPool_Empty(t *testing.T) {
	p := newDryDayPool()
	_, ok := p.TakeAfter(-1)
	assert.False(t, ok)
	assert.Empty(t, p.Days())
	assert.Zero(t, p.Len())
}
