package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_Push(t *testing.T) {

	b := NewBuffer(10)

	for i := 0; i < 100; i++ {
		l, ok := b.Push(float64(i))
		if i < 10 {
			assert.False(t, ok)
			assert.Len(t, b.Get(), i+1)
		} else {
			assert.True(t, ok)
			assert.Equal(t, float64(i-10), l)
			assert.Len(t, b.Get(), 10)
		}
	}

	assert.Equal(t, []float64{90, 91, 92, 93, 94, 95, 96, 97, 98, 99}, b.Get())
}

func TestBuffer_Empty(t *testing.T) {
	b := NewBuffer(3)
	assert.Empty(t, b.Get())
}
