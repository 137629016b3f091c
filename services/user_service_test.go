package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupDefaults(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, " Asha@Example.COM")

	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, model.Roles{model.RoleUser}, user.Roles)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Passw0rd!", user.PasswordHash)
	assert.Nil(t, user.CreatedBy)
	assert.Equal(t, []string{queue.EventUserRegistered}, f.events.types())
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "asha@example.com")

	_, err := f.users.Signup(context.Background(), SignupInput{Email: "asha@example.com", Password: "Passw0rd!"}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestSignupShortPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "short"}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUpdateRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "asha@example.com")

	user, err := f.users.UpdateRoles(ctx, "asha@example.com", []string{model.RoleAdmin, model.RoleAdmin, model.RoleUser}, audit.User(99))
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleAdmin, model.RoleUser}, user.Roles)
	require.NotNil(t, user.UpdatedBy)
	assert.Equal(t, uint(99), *user.UpdatedBy)

	_, err = f.users.UpdateRoles(ctx, "asha@example.com", []string{"ROOT"}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.users.UpdateRoles(ctx, "asha@example.com", nil, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.users.UpdateRoles(ctx, "nobody@example.com", []string{model.RoleAdmin}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateRolesReplacesWholeSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "asha@example.com")

	user, err := f.users.UpdateRoles(ctx, "asha@example.com", []string{model.RoleAdmin}, audit.None())
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleAdmin}, user.Roles)

	_, err = f.users.UpdateRoles(ctx, "asha@example.com", []string{"admin"}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := f.users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleAdmin}, stored.Roles)
}

func TestUpdateProfileLeavesUnsetFields(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "asha@example.com")

	qualification := "  B.Sc  "
	updated, err := f.users.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Qualification: &qualification}, audit.User(user.ID))
	require.NoError(t, err)

	assert.Equal(t, "B.Sc", updated.Qualification)
	assert.Equal(t, "Test", updated.FirstName)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soft := f.signup(t, "soft@example.com")
	hard := f.signup(t, "hard@example.com")

	require.NoError(t, f.users.Delete(ctx, soft.ID, false, audit.None()))
	require.NoError(t, f.users.Delete(ctx, hard.ID, true, audit.None()))

	_, err := f.users.Get(ctx, soft.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.users.Get(ctx, hard.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = f.users.Delete(ctx, soft.ID, false, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// the email is free again once the old account is deleted
	f.signup(t, "soft@example.com")
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	for _, e := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.signup(t, e)
	}

	users, total, err := f.users.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "c@example.com", users[0].Email)
}
