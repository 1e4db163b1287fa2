package service

import (
	"testing"

	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T) *Account {
	t.Helper()
	mem, err := store.New("")
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })
	return NewAccount(mem, nil)
}

func TestSignInPersistsUser(t *testing.T) {
	a := newAccount(t)

	user, err := a.SignIn(" ada@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.User{Email: "ada@example.com", Name: "ada"}, user)

	current, err := a.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user, *current)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	a := newAccount(t)

	tests := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"missing email", "", "secret", "please fill in all fields"},
		{"missing password", "ada@example.com", "", "please fill in all fields"},
		{"malformed email", "ada.example.com", "secret", "please enter a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SignIn(tt.email, tt.password)
			require.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	current, err := a.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSignOut(t *testing.T) {
	a := newAccount(t)
	_, err := a.SignIn("ada@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, a.SignOut())
	current, err := a.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}
