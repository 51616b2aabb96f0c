package encryption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService("")
	assert.Error(t, err)
}

func TestNewService_HexSecret(t *testing.T) {
	// 64 hex chars decode to a raw 32-byte key
	svc, err := NewService(strings.Repeat("ab", 32))
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewService_PassphraseSecret(t *testing.T) {
	svc, err := NewService("not-hex-at-all")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	plaintext := "sk-test-api-key-1234567890"
	token, err := svc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, token)
	assert.Contains(t, token, ":")

	decrypted, err := svc.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_DistinctTokensPerCall(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	first, err := svc.Encrypt("same-plaintext")
	require.NoError(t, err)
	second, err := svc.Encrypt("same-plaintext")
	require.NoError(t, err)

	// A fresh IV per call keeps tokens distinct
	assert.NotEqual(t, first, second)
}

func TestDecrypt_MalformedToken(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"no delimiter", "deadbeef"},
		{"two delimiters", "aa:bb:cc"},
		{"empty", ""},
		{"not hex", "zz:yy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decrypt(tt.token)
			require.Error(t, err)
			var decErr *DecryptionError
			assert.ErrorAs(t, err, &decErr)
		})
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	token, err := svc.Encrypt("something secret")
	require.NoError(t, err)

	// Flip a hex digit in the ciphertext half
	parts := strings.SplitN(token, ":", 2)
	require.Len(t, parts, 2)
	ct := []byte(parts[1])
	if ct[0] == '0' {
		ct[0] = '1'
	} else {
		ct[0] = '0'
	}
	tampered := parts[0] + ":" + string(ct)

	decrypted, err := svc.Decrypt(tampered)
	// CBC has no integrity tag, so tampering surfaces either as a padding
	// error or as garbage plaintext. It must never return the original.
	if err == nil {
		assert.NotEqual(t, "something secret", decrypted)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	svc1, err := NewService("secret-one")
	require.NoError(t, err)
	svc2, err := NewService("secret-two")
	require.NoError(t, err)

	token, err := svc1.Encrypt("payload")
	require.NoError(t, err)

	decrypted, err := svc2.Decrypt(token)
	if err == nil {
		assert.NotEqual(t, "payload", decrypted)
	}
}
