package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claim set issued by the upstream identity provider.
// The subject carries the user id; the tenant is carried in private claims.
type TokenClaims struct {
	jwt.RegisteredClaims

	CompanyID int64 `json:"company_id"`
	ScopeID   int64 `json:"scope_id"`
}

// Token wraps a verified JWT and the principal extracted from it.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// Claims is the decoded claim set.
	Claims TokenClaims `json:"-"`

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`
}

// Principal converts the verified claims into the caller identity used by
// the engine.
//
// Returns an error if the subject claim is missing or is not a base-10 int64.
func (t *Token) Principal() (Principal, error) {
	subject, err := t.Claims.GetSubject()
	if err != nil {
		return Principal{}, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return Principal{
		Tenant: Tenant{CompanyID: t.Claims.CompanyID, ScopeID: t.Claims.ScopeID},
		UserID: userID,
	}, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
