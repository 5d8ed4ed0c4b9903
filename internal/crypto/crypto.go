// Package crypto implements the master-secret key derivation and
// AES-256-GCM encryption used to seal the repository archive.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/pbkdf2"
)

const (
	KeyLength         = 32         // AES-256 key length
	NonceLength       = 12         // GCM nonce length
	SaltLength        = 32         // PBKDF2 salt length
	VerifierLength    = sha256.Size // DeriveVerifier output length
	DefaultIterations = 600000     // PBKDF2 iterations for new archives (OWASP 2023)
	MinIterations     = 600000     // minimum allowed iterations
)

// verifierLabel is mixed into the keyed archive verifier to separate its
// domain from the data-encryption key usage of the same derived key.
const verifierLabel = "ziplock-archive-verifier-v1"

var (
	ErrInvalidKeyLength   = errors.New("crypto: invalid key length")
	ErrInvalidNonceLength = errors.New("crypto: invalid nonce length")
	ErrInvalidSaltLength  = errors.New("crypto: invalid salt length")
	ErrDecryptionFailed   = errors.New("crypto: decryption failed")
	ErrInvalidCiphertext  = errors.New("crypto: invalid ciphertext length")
)

// Service derives keys and performs authenticated encryption for the
// repository archive's master secret.
type Service struct{}

// NewService constructs a Service. It carries no state of its own.
func NewService() *Service {
	return &Service{}
}

// GenerateSalt returns SaltLength bytes of cryptographically random salt.
func (c *Service) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a KeyLength-byte key from password and salt using
// PBKDF2-HMAC-SHA256 with the given iteration count.
func (c *Service) DeriveKey(password []byte, salt []byte, iterations int) ([]byte, error) {
	if len(salt) != SaltLength {
		return nil, ErrInvalidSaltLength
	}
	return pbkdf2.Key(password, salt, iterations, KeyLength, sha256.New), nil
}

// Encrypt seals data under key using AES-256-GCM with a fresh random
// nonce, which is prepended to the returned ciphertext.
func (c *Service) Encrypt(data []byte, key []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", err)
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, data, nil)

	result := make([]byte, NonceLength+len(ciphertext))
	copy(result[:NonceLength], nonce)
	copy(result[NonceLength:], ciphertext)
	return result, nil
}

// Decrypt opens data previously produced by Encrypt under the same key.
// It returns ErrDecryptionFailed on authentication failure, which by
// itself cannot distinguish a wrong key from corrupted ciphertext --
// callers that need to tell those apart should check DeriveVerifier
// against a stored verifier before calling Decrypt.
func (c *Service) Decrypt(encryptedData []byte, key []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if len(encryptedData) < NonceLength {
		return nil, ErrInvalidCiphertext
	}

	nonce := encryptedData[:NonceLength]
	ciphertext := encryptedData[NonceLength:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// DeriveVerifier returns a keyed value proving possession of key, built
// independently of AES-GCM's own authentication tag. Archive formats use
// it to tell a wrong password apart from corrupted ciphertext: GCM's tag
// fails identically for both, but a mismatched verifier can be checked
// before the (possibly large) payload is decrypted at all.
func DeriveVerifier(key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(verifierLabel))
	return mac.Sum(nil)
}

// SecureRandom returns length bytes of cryptographically random data.
func (c *Service) SecureRandom(length int) ([]byte, error) {
	if length <= 0 {
		return nil, errors.New("crypto: invalid length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("crypto: secure random: %w", err)
	}
	return b, nil
}

// SecureCompare performs a constant-time comparison of two byte slices,
// used wherever the repository must compare a supplied secret against a
// stored one without leaking timing information.
func SecureCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ClearBytes zeros data in place, using subtle.ConstantTimeCompare as a
// compiler barrier so the store is not optimized away.
func ClearBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
	dummy := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, dummy)
}

// IterationsFromEnv returns the PBKDF2 iteration count to use for newly
// created archives. It honors a ZIPLOCK_KDF_ITERATIONS environment
// override for operators who need to tune KDF cost, enforcing
// MinIterations as a floor.
func IterationsFromEnv() int {
	envVal := os.Getenv("ZIPLOCK_KDF_ITERATIONS")
	if envVal == "" {
		return DefaultIterations
	}

	iterations, err := strconv.Atoi(envVal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ziplock: invalid ZIPLOCK_KDF_ITERATIONS value %q, using default %d\n", envVal, DefaultIterations)
		return DefaultIterations
	}
	if iterations < MinIterations {
		fmt.Fprintf(os.Stderr, "ziplock: ZIPLOCK_KDF_ITERATIONS (%d) below minimum (%d), using minimum\n", iterations, MinIterations)
		return MinIterations
	}
	return iterations
}
