package model

// ProtectedCredential represents a gateway credential encrypted for one owner.
// Ciphertext and salt are base64 (std encoding); the GCM nonce is prepended to
// the ciphertext before encoding so the record is self-contained.
type ProtectedCredential struct {
	CipherText    string `json:"cipherText"`
	Salt          string `json:"salt"`
	OwnerIdentity string `json:"ownerIdentity"`
}
