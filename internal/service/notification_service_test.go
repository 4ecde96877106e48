package service

import (
	"testing"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyPersists(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", model.Student)

	env.notification.Notify(user.ID, "Welcome aboard", model.NotifyAdminMessage)
	env.notification.Notify(user.ID, "Second message", model.NotifyAdminMessage)

	list, err := env.notification.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.Equal(t, "Second message", list[0].Message)
	assert.False(t, list[0].Read)
}

func TestMarkRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", model.Student)
	bob := env.createUser(t, "bob", model.Student)

	env.notification.Notify(alice.ID, "Hello", model.NotifyAdminMessage)
	list, err := env.notification.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// another user cannot touch it
	err = env.notification.MarkRead(list[0].ID, bob.ID)
	assert.ErrorIs(t, err, util.ErrNotificationNotFound)

	require.NoError(t, env.notification.MarkRead(list[0].ID, alice.ID))

	list, err = env.notification.List(alice.ID)
	require.NoError(t, err)
	assert.True(t, list[0].Read)

	// marking twice is a no-op
	require.NoError(t, env.notification.MarkRead(list[0].ID, alice.ID))
}

func TestClearAll(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", model.Student)
	bob := env.createUser(t, "bob", model.Student)

	env.notification.Notify(alice.ID, "One", model.NotifyAdminMessage)
	env.notification.Notify(alice.ID, "Two", model.NotifyAdminMessage)
	env.notification.Notify(bob.ID, "Keep me", model.NotifyAdminMessage)

	require.NoError(t, env.notification.ClearAll(alice.ID))

	list, err := env.notification.List(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = env.notification.List(bob.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
