package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"copyforge-core-shopify-layer/internal/ports"
)

const tokenDelimiter = ":"

// DecryptionError reports a ciphertext token that could not be decrypted:
// malformed token, bad hex, short IV or a cipher rejection. There is no
// integrity tag, so tampered ciphertext that happens to unpad cleanly is
// not detected.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

// Service implements ports.EncryptionService with AES-256-CBC. The ciphertext
// token is hex(iv) + ":" + hex(ciphertext); a fresh random IV makes every
// encryption of the same plaintext produce a different token.
type Service struct {
	key []byte
}

// NewService derives the process-wide key from the configured secret. A
// 64-character hex secret is used directly as the raw 32-byte key; hex
// secrets that decode to any other length are rejected. Any other secret is
// hashed with SHA-256 down to key length. Changing the secret invalidates
// all previously stored ciphertext.
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is required")
	}

	if len(secret) == 64 {
		key, err := hex.DecodeString(secret)
		if err == nil {
			if len(key) != 32 {
				return nil, fmt.Errorf("hex encryption key decodes to %d bytes, want 32", len(key))
			}
			return &Service{key: key}, nil
		}
		// Not valid hex; fall through to hashing.
	}

	sum := sha256.Sum256([]byte(secret))
	return &Service{key: sum[:]}, nil
}

// Encrypt encrypts plaintext into a ciphertext token.
func (s *Service) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + tokenDelimiter + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Tokens that do not contain exactly one delimiter,
// or whose IV/ciphertext pair the cipher rejects, fail with a *DecryptionError.
func (s *Service) Decrypt(token string) (string, error) {
	parts := strings.Split(token, tokenDelimiter)
	if len(parts) != 2 {
		return "", &DecryptionError{Reason: fmt.Sprintf("token has %d segments, want 2", len(parts))}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", &DecryptionError{Reason: "IV segment is not valid hex"}
	}
	if len(iv) != aes.BlockSize {
		return "", &DecryptionError{Reason: fmt.Sprintf("IV is %d bytes, want %d", len(iv), aes.BlockSize)}
	}

	data, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", &DecryptionError{Reason: "ciphertext segment is not valid hex"}
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", &DecryptionError{Reason: "ciphertext is not a whole number of blocks"}
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", &DecryptionError{Reason: err.Error()}
	}

	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}

var _ ports.EncryptionService = (*Service)(nil)
