package certificates

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is a digital provenance record minted when a documentation
// session completes. The token ID is the certificate's public identifier.
type Certificate struct {
	TokenID    uuid.UUID      `json:"tokenId"`
	SessionID  uuid.UUID      `json:"sessionId"`
	Recipient  string         `json:"recipient"`
	Attributes map[string]any `json:"attributes"`
	MintedAt   time.Time      `json:"mintedAt"`
}

// MintCommand carries the data required to mint a certificate.
type MintCommand struct {
	SessionID  uuid.UUID      `json:"sessionId"`
	Recipient  string         `json:"recipient"`
	Attributes map[string]any `json:"attributes"`
}

// CompleteRequest is the HTTP body for the session completion endpoint.
type CompleteRequest struct {
	Recipient string `json:"recipient"`
}
