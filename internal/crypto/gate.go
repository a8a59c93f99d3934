package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSignatureDeclined reports that the owner's signer failed or refused to
// sign the reveal challenge. No decryption is attempted in that case.
var ErrSignatureDeclined = errors.New("signature declined")

// SignFunc is the owner's signing capability, backed by a wallet the caller
// controls. It receives a human-readable challenge and returns the signature.
type SignFunc func(message string) (string, error)

// RevealChallenge builds the message an owner must sign before a stored
// credential is decrypted. It embeds the vault id and a fresh timestamp and
// nonce, so a signature captured for one vault cannot be replayed against
// another, nor reused later.
func RevealChallenge(vaultID uint64, now time.Time) string {
	return fmt.Sprintf("Reveal credential for vault %d at %s [%s]",
		vaultID, now.UTC().Format(time.RFC3339), uuid.NewString())
}

// DecryptWithProof releases a protected credential only after the owner
// produces a fresh signature over a vault-bound challenge. The plaintext is
// never computed before the gate passes; if sign fails or returns an empty
// signature the cipher is never touched.
func DecryptWithProof(ciphertextB64, saltB64, ownerIdentity string, vaultID uint64, sign SignFunc) (string, error) {
	if sign == nil {
		return "", fmt.Errorf("%w: no signer provided", ErrSignatureDeclined)
	}

	challenge := RevealChallenge(vaultID, time.Now())

	sig, err := sign(challenge)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignatureDeclined, err)
	}
	if sig == "" {
		return "", fmt.Errorf("%w: empty signature", ErrSignatureDeclined)
	}

	return Decrypt(ciphertextB64, saltB64, ownerIdentity)
}
