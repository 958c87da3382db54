package certificates

import (
	"encoding/json"

	"github.com/atelier-studio/provenance/pkg/query"
	"github.com/atelier-studio/provenance/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "certificates", "c").
	Project("token_id", "TokenID").
	Project("session_id", "SessionID").
	Project("recipient", "Recipient").
	Project("attributes", "Attributes").
	Project("minted_at", "MintedAt")

var defaultSort = query.SortField{
	Field:      "MintedAt",
	Descending: true,
}

func scanCertificate(s repository.Scanner) (Certificate, error) {
	var (
		cert Certificate
		raw  []byte
	)

	if err := s.Scan(
		&cert.TokenID,
		&cert.SessionID,
		&cert.Recipient,
		&raw,
		&cert.MintedAt,
	); err != nil {
		return cert, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cert.Attributes); err != nil {
			return cert, err
		}
	}

	return cert, nil
}
