package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndVerifyToken(t *testing.T) {
	req := require.New(t)
	key := []byte(GenerateSecretKey())

	token, err := CreateJwtToken(7, "seller@example.com", "Sam", "Seller", key, time.Now().Add(time.Hour))
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := VerifyToken(token, key)
	req.NoError(err)
	req.Equal(uint(7), claims.ID)
	req.Equal("seller@example.com", claims.Email)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	req := require.New(t)
	key := []byte(GenerateSecretKey())
	otherKey := []byte(GenerateSecretKey())

	token, err := CreateJwtToken(7, "seller@example.com", "Sam", "Seller", key, time.Now().Add(time.Hour))
	req.NoError(err)

	_, err = VerifyToken(token, otherKey)
	req.Error(err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	req := require.New(t)
	key := []byte(GenerateSecretKey())

	token, err := CreateJwtToken(7, "seller@example.com", "Sam", "Seller", key, time.Now().Add(-time.Minute))
	req.NoError(err)

	_, err = VerifyToken(token, key)
	req.Error(err)
}
