package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Token issuance lives in the identity service; this package only needs the
// shape so tests and tooling can mint fixtures.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	Email  string
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	Email  string         `json:"email,omitempty"`
	jwt.RegisteredClaims
}
