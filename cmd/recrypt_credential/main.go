// One-off: decrypt a protected credential for its current owner and
// re-encrypt it for a new owner identity (fresh salt and nonce). Prints the
// new cipherText and salt as JSON for the store-credential transaction.
// Usage: go run ./cmd/recrypt_credential -cipher <b64> -salt <b64> -owner <id> -new-owner <id>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/J-Palomino/flow-actions-sub000/internal/crypto"
)

func main() {
	cipherText := flag.String("cipher", "", "base64 ciphertext from the ledger")
	salt := flag.String("salt", "", "base64 salt from the ledger")
	owner := flag.String("owner", "", "current owner identity")
	newOwner := flag.String("new-owner", "", "owner identity to re-encrypt for")
	flag.Parse()

	if *cipherText == "" || *salt == "" || *owner == "" || *newOwner == "" {
		flag.Usage()
		os.Exit(2)
	}

	secret, err := crypto.Decrypt(*cipherText, *salt, *owner)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decrypt failed:", err)
		os.Exit(1)
	}

	protected, err := crypto.Encrypt(secret, *newOwner)
	if err != nil {
		fmt.Fprintln(os.Stderr, "encrypt failed:", err)
		os.Exit(1)
	}

	if !crypto.VerifyRoundTrip(secret, protected.CipherText, protected.Salt, *newOwner) {
		fmt.Fprintln(os.Stderr, "round-trip verification failed")
		os.Exit(1)
	}

	json.NewEncoder(os.Stdout).Encode(protected)
}
