package vault

import (
	"github.com/J-Palomino/flow-actions-sub000/internal/crypto"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// Reveal releases a vault's stored credential to its owner. The stored
// record is fetched eagerly, but the plaintext is never computed until the
// owner signs a fresh vault-bound challenge; possession of the ciphertext
// alone yields nothing.
func (s *Service) Reveal(vaultID uint64, cred *model.ProtectedCredential, ownerIdentity string, sign crypto.SignFunc) (string, error) {
	secret, err := crypto.DecryptWithProof(cred.CipherText, cred.Salt, ownerIdentity, vaultID, sign)
	if err != nil {
		s.log.Warn(vaultID, "credential reveal denied", map[string]interface{}{"error": err.Error()})
		return "", err
	}

	s.log.Info(vaultID, "credential revealed to owner", nil)
	return secret, nil
}
