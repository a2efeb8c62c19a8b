package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate(secret, 42, "tienda", time.Hour)
	require.NoError(t, err)

	userID, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate(secret, 42, "tienda", time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := jwt.Generate(secret, 42, "tienda", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := jwt.Generate("", 1, "tienda", time.Hour)
	assert.Error(t, err)
}
