package jwt

import (
	"testing"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var khoaNoi = user.Principal{UserID: "u-1", Role: user.RoleDepartment, Department: "Khoa Nội"}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, 2*time.Minute)

	token, expiresIn, err := svc.GenerateSSEToken(khoaNoi)
	require.NoError(t, err)
	assert.Equal(t, 120, expiresIn)

	got, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, khoaNoi, got)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Minute)

	access, _, err := svc.GenerateAccessToken(khoaNoi)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestValidateSSEToken_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Minute).(*JWTService)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken(khoaNoi)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("one", time.Hour, time.Minute).GenerateSSEToken(khoaNoi)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour, time.Minute).ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestGenerate_InvalidPrincipal(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Minute)

	_, _, err := svc.GenerateAccessToken(user.Principal{UserID: "u", Role: "NURSE"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	_, _, err = svc.GenerateAccessToken(user.Principal{UserID: "u", Role: user.RoleDepartment})
	assert.ErrorIs(t, err, user.ErrDepartmentRequired)

	_, _, err = svc.GenerateSSEToken(user.Principal{Role: user.RoleDirector})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestPrincipalFromClaims(t *testing.T) {
	p, err := PrincipalFromClaims(map[string]interface{}{"user_id": "d-1", "role": "GIAMDOC"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleDirector, p.Role)
	assert.Equal(t, "", p.Scope())

	_, err = PrincipalFromClaims(map[string]interface{}{"user_id": "d-1"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}
