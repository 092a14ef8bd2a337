package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	// JTI doubles as the Redis session identifier; a fresh one is generated
	// when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients. The token
// carries identity only; community roles are resolved per request against the
// membership rows.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}
