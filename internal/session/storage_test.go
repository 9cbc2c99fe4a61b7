package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

func TestFileStorageRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	fs := NewFileStorage(dir)

	token, user, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	campus := 2
	in := &domain.User{ID: 5, Username: "wang", Role: domain.RoleCoach, CampusID: &campus}
	require.NoError(t, fs.Save("tok-5", in))

	for _, name := range []string{tokenFile, userFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), name)
	}

	token, user, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-5", token)
	require.NotNil(t, user)
	assert.Equal(t, "wang", user.Username)
	require.NotNil(t, user.CampusID)
	assert.Equal(t, 2, *user.CampusID)
}

func TestFileStorageClearRemovesBoth(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage(dir)
	require.NoError(t, fs.Save("tok", &domain.User{ID: 1}))

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())

	_, err := os.Stat(filepath.Join(dir, tokenFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, userFile))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorageCorruptUser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFile), []byte("tok\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), []byte("{not json"), 0600))

	token, user, err := NewFileStorage(dir).Load()
	require.Error(t, err)
	assert.Equal(t, "tok", token)
	assert.Nil(t, user)
}

func TestRestoreClearsCorruptStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFile), []byte("tok"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), []byte("[]"), 0600))

	s := NewStore(&fakeAPI{}, NewFileStorage(dir))
	require.NoError(t, <-s.RestoreSession(t.Context()))
	assert.False(t, s.Snapshot().Authenticated)

	_, err := os.Stat(filepath.Join(dir, tokenFile))
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryStorageCopiesUser(t *testing.T) {
	u := &domain.User{ID: 1, RealName: "before"}
	m := NewMemoryStorage("", nil)
	require.NoError(t, m.Save("tok", u))
	u.RealName = "after"

	_, got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "before", got.RealName)
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sign := func(claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"past exp", sign(jwt.MapClaims{"sub": "1", "exp": now.Add(-time.Minute).Unix()}), true},
		{"future exp", sign(jwt.MapClaims{"sub": "1", "exp": now.Add(time.Hour).Unix()}), false},
		{"no exp", sign(jwt.MapClaims{"sub": "1"}), false},
		{"opaque token", "d3b07384d113edec49eaa6238ad5ff00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenExpired(tt.token, now))
		})
	}
}
