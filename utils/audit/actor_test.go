package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	unknown := None()
	assert.False(t, unknown.Known())
	assert.Nil(t, unknown.Ptr())

	assert.False(t, User(0).Known())

	actor := User(42)
	id, ok := actor.ID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	if assert.NotNil(t, actor.Ptr()) {
		assert.Equal(t, uint(42), *actor.Ptr())
	}
}
