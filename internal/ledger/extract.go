package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// ErrIdentifierExtraction reports that a finalized transaction's logs carried
// no recognizable vault identifier. Every downstream step (credential
// protection, local bookkeeping) is keyed by this id, so callers must treat
// this as a hard failure, never proceed with an absent id.
var ErrIdentifierExtraction = errors.New("no vault identifier found in transaction logs")

// The ledger's only channel for returning a newly minted id is free-text log
// output. Recognized formats, in priority order; earlier patterns win over
// later ones regardless of line position.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bvault\s+id\s*:\s*(\d+)`),    // "Vault ID: 424965"
	regexp.MustCompile(`(?i)\bidentifier\s*:\s*(\d+)`),    // "identifier: 424965"
	regexp.MustCompile(`(?i)\b(?:vault|entity)\s*#(\d+)`), // "vault #424965"
	regexp.MustCompile(`(?i)(?:vault|identifier)_(\d+)`),  // ".../vault_424965/..."
}

// ExtractIdentifier scans a transaction record's log lines for the first line
// matching a recognized identifier format and returns the parsed id
func ExtractIdentifier(record *model.TransactionRecord) (uint64, error) {
	if record == nil {
		return 0, ErrIdentifierExtraction
	}

	for _, pattern := range idPatterns {
		for _, line := range record.LogLines {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			id, err := strconv.ParseUint(m[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: unparseable id %q", ErrIdentifierExtraction, m[1])
			}
			return id, nil
		}
	}

	return 0, fmt.Errorf("%w: tx %s, %d log lines scanned", ErrIdentifierExtraction, record.ID, len(record.LogLines))
}
