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

func TestAuthenticateIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")

	result, err := f.auth.Authenticate(ctx, "Asha@Example.com ", "Passw0rd!")
	require.NoError(t, err)

	resolved, claims, err := f.auth.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthenticateFailuresShareMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "asha@example.com")

	_, wrongPassword := f.auth.Authenticate(ctx, "asha@example.com", "not-the-password")
	_, unknownEmail := f.auth.Authenticate(ctx, "nobody@example.com", "Passw0rd!")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.True(t, apperror.Is(wrongPassword, apperror.KindUnauthorized))
	assert.Contains(t, unknownEmail.Error(), MsgInvalidCredentials)
}

func TestAuthenticateRejectsOAuthOnlyAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.OAuthLogin(ctx, OAuthInput{Email: "oauth@example.com", FirstName: "O"})
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, "oauth@example.com", "")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "user@example.com")
	f.admin(t, "admin@example.com")

	_, err := f.auth.AdminLogin(ctx, "user@example.com", "Passw0rd!")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Contains(t, err.Error(), MsgNotAdmin)

	result, err := f.auth.AdminLogin(ctx, "admin@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.True(t, result.User.Roles.HasAny(model.RoleAdmin))
}

func TestVerifyTokenRejectsDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "gone@example.com")

	result, err := f.auth.IssueToken(user)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, user.ID, false, audit.None()))

	_, _, err = f.auth.VerifyToken(ctx, result.Token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestPasswordChangeInvalidatesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")

	before, err := f.auth.Authenticate(ctx, "asha@example.com", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, f.users.UpdatePassword(ctx, user.ID, "N3wPassw0rd!", audit.User(user.ID)))

	_, _, err = f.auth.VerifyToken(ctx, before.Token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	after, err := f.auth.Authenticate(ctx, "asha@example.com", "N3wPassw0rd!")
	require.NoError(t, err)
	_, _, err = f.auth.VerifyToken(ctx, after.Token)
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "asha@example.com")

	result, err := f.auth.Authenticate(ctx, "asha@example.com", "Passw0rd!")
	require.NoError(t, err)
	_, claims, err := f.auth.VerifyToken(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, claims))

	_, _, err = f.auth.VerifyToken(ctx, result.Token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestOAuthLoginFindsOrCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.auth.OAuthLogin(ctx, OAuthInput{Email: "New@Example.com", FirstName: "New"})
	require.NoError(t, err)
	second, err := f.auth.OAuthLogin(ctx, OAuthInput{Email: "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, model.Roles{model.RoleUser}, second.User.Roles)
	assert.Equal(t, []string{queue.EventUserRegistered}, f.events.types())
}

func TestResolveActorNeverFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")
	result, err := f.auth.IssueToken(user)
	require.NoError(t, err)

	assert.False(t, f.auth.ResolveActor(ctx, "").Known())
	assert.False(t, f.auth.ResolveActor(ctx, "garbage").Known())

	id, ok := f.auth.ResolveActor(ctx, result.Token).ID()
	assert.True(t, ok)
	assert.Equal(t, user.ID, id)
}
