// model/auth.go
package model

import "time"

// Role enumerates the three parties the ledger coordinates.
type Role string

const (
	RoleLab        Role = "lab"
	RoleAuditor    Role = "auditor"
	RoleGovernment Role = "government"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleLab || r == RoleAuditor || r == RoleGovernment
}

// Party is a registered API client. KeyHash is the SHA-256 of the raw key;
// the raw key itself is returned once at issuance and never stored.
type Party struct {
	PartyID   string    `json:"party_id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	KeyHash   string    `json:"key_hash"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `json:"revoked"`
}

// PartyInfo is the public view of a party, without the key hash.
type PartyInfo struct {
	PartyID   string    `json:"party_id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `json:"revoked"`
}

// Info strips the key hash for API responses.
func (p Party) Info() PartyInfo {
	return PartyInfo{
		PartyID:   p.PartyID,
		Name:      p.Name,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		Revoked:   p.Revoked,
	}
}

// Registration is returned exactly once from POST /auth/register.
type Registration struct {
	PartyID string `json:"party_id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	APIKey  string `json:"api_key"`
	Warning string `json:"warning"`
}

// KeyRotation is returned from POST /auth/rotate-key; the old key is
// invalid the moment this response is produced.
type KeyRotation struct {
	PartyID string `json:"party_id"`
	APIKey  string `json:"api_key"`
	Warning string `json:"warning"`
}
