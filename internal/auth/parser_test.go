package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserRoundTrip(t *testing.T) {
	p := NewParser("access-secret")
	token, err := p.Issue("analyst-1", "viewer", time.Hour)
	require.NoError(t, err)

	claims, err := p.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "analyst-1", claims.UserID)
	assert.Equal(t, "viewer", claims.Role)
}

func TestParserRejectsForeignSecret(t *testing.T) {
	token, err := NewParser("other").Issue("analyst-1", "", time.Hour)
	require.NoError(t, err)

	_, err = NewParser("access-secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParserRejectsExpired(t *testing.T) {
	p := NewParser("access-secret")
	token, err := p.Issue("analyst-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = p.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParserRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "x"}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = NewParser("access-secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
