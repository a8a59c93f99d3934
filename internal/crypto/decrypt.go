package crypto

import (
	"encoding/base64"
	"fmt"
)

// Decrypt recovers a credential protected by Encrypt.
// It succeeds iff ownerIdentity matches the identity used at encryption
// time; possession of the stored material alone yields nothing. Undecodable
// input fails fast with ErrMalformedInput, authentication failure with
// ErrDecryptionFailed.
func Decrypt(ciphertextB64, saltB64, ownerIdentity string) (string, error) {
	if ownerIdentity == "" {
		return "", fmt.Errorf("%w: empty owner identity", ErrMalformedInput)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode ciphertext: %v", ErrMalformedInput, err)
	}

	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode salt: %v", ErrMalformedInput, err)
	}

	if len(salt) != saltLen {
		return "", fmt.Errorf("%w: unexpected salt length %d", ErrMalformedInput, len(salt))
	}
	if len(ciphertext) <= nonceLen {
		return "", fmt.Errorf("%w: ciphertext too short", ErrMalformedInput)
	}

	nonce, sealed := ciphertext[:nonceLen], ciphertext[nonceLen:]

	aesGCM, err := newAEAD(ownerIdentity, salt)
	if err != nil {
		return "", err
	}

	plaintext, err := aesGCM.Open(nil, nonce, sealed, nil)
	if err != nil {
		// No oracle: wrong owner, wrong salt and corrupted data all land here
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// VerifyRoundTrip checks that a stored credential still decrypts back to the
// expected secret. Diagnostics only, never on the hot path.
func VerifyRoundTrip(secret, ciphertextB64, saltB64, ownerIdentity string) bool {
	got, err := Decrypt(ciphertextB64, saltB64, ownerIdentity)
	return err == nil && got == secret
}
