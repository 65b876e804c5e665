package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(User))
	assert.True(t, Admin.HasPermission(Admin))
	assert.True(t, User.HasPermission(User))
	assert.False(t, User.HasPermission(Admin))
	assert.False(t, Role("guest").HasPermission(Admin))
}

func TestIsValid(t *testing.T) {
	assert.True(t, User.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("moderator").IsValid())
}
