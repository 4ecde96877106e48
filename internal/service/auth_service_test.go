package service

import (
	"testing"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user := &model.User{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
		Role:     model.Student,
	}
	require.NoError(t, env.auth.Register(user))

	// email is normalized on the way in
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct horse battery", user.Password)

	token, got, err := env.auth.Login("alice@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", model.Student)

	err := env.auth.Register(&model.User{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.Student,
	})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", model.Student)

	err := env.auth.Register(&model.User{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
		Role:     model.Student,
	})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", model.Student)

	_, _, err := env.auth.Login("alice@example.com", "not the password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = env.auth.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestRegisterAfterAccountDeletion(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", model.Student)

	require.NoError(t, env.user.Delete(user.ID))

	// deletion frees the unique username/email slots for a fresh signup
	err := env.auth.Register(&model.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.Student,
	})
	require.NoError(t, err)
}
