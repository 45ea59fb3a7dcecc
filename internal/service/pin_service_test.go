package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashService_HashAndVerify(t *testing.T) {
	svc := NewBcryptHashService()

	hash, err := svc.Hash("12345")
	require.NoError(t, err)
	assert.NotEqual(t, "12345", hash)

	ok, err := svc.Verify("12345", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHashService_Verify_WrongPin(t *testing.T) {
	svc := NewBcryptHashService()

	hash, err := svc.Hash("12345")
	require.NoError(t, err)

	ok, err := svc.Verify("54321", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHashService_Verify_MalformedHash(t *testing.T) {
	svc := NewBcryptHashService()

	_, err := svc.Verify("12345", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestBcryptHashService_HashesAreSalted(t *testing.T) {
	svc := NewBcryptHashService()

	h1, err := svc.Hash("12345")
	require.NoError(t, err)
	h2, err := svc.Hash("12345")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
