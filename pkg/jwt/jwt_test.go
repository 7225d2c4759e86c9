package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/jhoicas/Distribuidores-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u1", "c1", "distribuidor", "distribuidores-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", "distribuidores-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "distribuidor", claims.Role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u1", "c1", "admin", "", 5)
	require.NoError(t, err)
	_, err = jwt.Parse("otro", "", tok)
	assert.Error(t, err)
}

func TestParse_EmisorDistinto(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u1", "c1", "admin", "otro-emisor", 5)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", "distribuidores-api", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	claims := jwt.Claims{UserID: "u1", CompanyID: "c1", Role: "admin"}
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Minute))
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secreto"))
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", "", tok)
	assert.ErrorIs(t, err, jwt.ErrExpired)
}
