package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 parameters for owner-derived credential keys.
	//
	// The "password" is the owner identity (a wallet address), which is
	// public. The slow derivation only raises the cost of bulk offline
	// attacks against stolen ciphertext; actual release of the plaintext is
	// additionally gated on a fresh wallet signature (see gate.go).
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	saltLen          = 16
	nonceLen         = 12
)

var (
	// ErrMalformedInput reports undecodable or truncated stored material
	ErrMalformedInput = errors.New("malformed credential input")
	// ErrDecryptionFailed reports an authentication failure. Wrong owner and
	// corrupted data are intentionally indistinguishable.
	ErrDecryptionFailed = errors.New("credential decryption failed")
)

// Encrypt protects a gateway credential for one owner.
// A fresh salt and nonce are generated per call, so encrypting the same
// secret for the same owner twice never yields the same ciphertext. The
// nonce is prepended to the ciphertext so the stored record is self-contained.
func Encrypt(secret, ownerIdentity string) (*model.ProtectedCredential, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrMalformedInput)
	}
	if ownerIdentity == "" {
		return nil, fmt.Errorf("%w: empty owner identity", ErrMalformedInput)
	}

	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newAEAD(ownerIdentity, salt)
	if err != nil {
		return nil, err
	}

	plaintext := []byte(secret)
	defer clear(plaintext) // wipe plaintext bytes from memory

	// Encrypt and prepend nonce
	sealed := aesGCM.Seal(nil, nonce, plaintext, nil)
	ciphertext := append(nonce, sealed...)

	return &model.ProtectedCredential{
		CipherText:    base64.StdEncoding.EncodeToString(ciphertext),
		Salt:          base64.StdEncoding.EncodeToString(salt),
		OwnerIdentity: ownerIdentity,
	}, nil
}

// newAEAD derives the owner key and builds the AES-256-GCM instance
func newAEAD(ownerIdentity string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(ownerIdentity), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
