package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedOrderIDs(t *testing.T) {
	g := NewFixedOrderIDs()

	assert.Equal(t, "order-0001", g.NewID())
	assert.Equal(t, "order-0002", g.NewID())
	assert.Equal(t, "order-0003", g.NewID())
	assert.Equal(t, 3, g.Count())
}
