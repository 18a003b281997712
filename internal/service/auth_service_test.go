package service

import (
	"testing"

	"questline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u, token, err := f.auth.Register(f.ctx, Registration{
		Email:    "  Ada@Example.com ",
		Username: "ada",
		Password: "lovelace",
		IP:       "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, 1, u.Progress.Level)
	assert.Equal(t, domain.DefaultSettings(), u.Settings)
	assert.NotEqual(t, "lovelace", u.PasswordHash)

	id, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	assert.Equal(t, int64(domain.DefaultStartingCoin), f.balance(u.ID))
	assert.Empty(t, f.store.Transactions(u.ID))

	list, err := f.achievements.List(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(domain.AchievementCatalog))

	entries := f.store.AuditEntries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditActionRegister, last.Action)
	assert.Equal(t, "10.0.0.1", last.IP)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.auth.Register(f.ctx, Registration{Email: "taken@example.com", Username: "taken", Password: "secret-pw"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		reg     Registration
		wantErr error
	}{
		{"bad email", Registration{Email: "nope", Username: "x", Password: "secret-pw"}, domain.ErrInvalidArgument},
		{"blank username", Registration{Email: "a@b.co", Username: " ", Password: "secret-pw"}, domain.ErrInvalidArgument},
		{"short password", Registration{Email: "a@b.co", Username: "x", Password: "12345"}, domain.ErrInvalidArgument},
		{"email taken ignoring case", Registration{Email: "TAKEN@example.com", Username: "x", Password: "secret-pw"}, domain.ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.auth.Register(f.ctx, tt.reg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.auth.Register(f.ctx, Registration{Email: "grace@example.com", Username: "grace", Password: "hopper-pw"})
	require.NoError(t, err)

	u, token, err := f.auth.Login(f.ctx, "Grace@example.com", "hopper-pw", "", "")
	require.NoError(t, err)
	assert.Equal(t, "grace", u.Username)
	assert.NotEmpty(t, token)

	_, _, err = f.auth.Login(f.ctx, "grace@example.com", "wrong", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = f.auth.Login(f.ctx, "nobody@example.com", "hopper-pw", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
