package ports

// EncryptionService defines symmetric encryption for small secrets.
// Encrypt produces a fresh ciphertext token on every call; Decrypt reverses
// it. The token format is owned by the implementation.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
