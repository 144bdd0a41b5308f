package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("user"))
	assert.False(t, ValidRole("ROOT"))
}

func TestAuthorities(t *testing.T) {
	assert.Equal(t, []string{"ROLE_USER"}, Authorities(RoleUser))
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, Authorities(RoleAdmin))
	assert.Nil(t, Authorities("ROOT"))
}

func TestRefreshTokenExpired(t *testing.T) {
	now := time.Now().UTC()
	live := RefreshToken{ExpiresAt: now.Add(time.Hour)}
	dead := RefreshToken{ExpiresAt: now.Add(-time.Hour)}

	assert.False(t, live.Expired(now))
	assert.True(t, dead.Expired(now))

	// Comparison is in UTC regardless of the caller's zone.
	zoned := now.In(time.FixedZone("UTC+5", 5*3600))
	assert.False(t, live.Expired(zoned))
	assert.True(t, dead.Expired(zoned))
}
