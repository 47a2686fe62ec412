package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, exp, err := jwt.Generate("s3cret", "u-1", "sid-1", "Ana", "inventory-tracker", 30)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "inventory-tracker", claims.Issuer)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	token, _, err := jwt.Generate("s3cret", "u-1", "sid-1", "Ana", "x", 30)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, _, err := jwt.Generate("s3cret", "u-1", "sid-1", "Ana", "x", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cret", token)
	assert.Error(t, err)
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, _, err := jwt.Generate("", "u-1", "sid-1", "Ana", "x", 30)
	assert.Error(t, err)
}
