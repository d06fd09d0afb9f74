package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/q42jaap/opvault/internal/common"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	tok, err := GenerateToken("acct-123", secret, time.Hour)
	require.NoError(t, err)

	accountID, err := AccountIDFromToken(tok, secret)
	require.NoError(t, err)
	require.Equal(t, "acct-123", accountID)
}

func TestAccountIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("a1", secret, -time.Second)
	require.NoError(t, err)

	_, err = AccountIDFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAccountIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("a2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = AccountIDFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAccountIDFromToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := AccountIDFromToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestHashAndCheckSecret(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)

	require.NoError(t, CheckSecret(hash, "correct horse"))
	require.ErrorIs(t, CheckSecret(hash, "battery staple"), common.ErrUnauthorized)
}
