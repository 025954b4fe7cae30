package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims are the HS256 token claims understood by JWTProvider.
type Claims struct {
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 tokens signed with a shared secret key. The
// profile is read from the verified claims.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider creates a JWTProvider for the given secret key.
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, fmt.Errorf("%w: signature invalid", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Claims: map[string]any{
			"given_name":  claims.GivenName,
			"family_name": claims.FamilyName,
			"iat":         claims.IssuedAt,
		},
	}, nil
}

func (p *JWTProvider) Profile(_ context.Context, id *Identity) (*Profile, error) {
	profile := &Profile{UID: id.UID, Email: id.Email, DisplayName: id.Name}

	given, _ := id.Claims["given_name"].(string)
	family, _ := id.Claims["family_name"].(string)
	if given != "" || family != "" {
		profile.FirstName, profile.LastName = given, family
	} else {
		profile.FirstName, profile.LastName = splitName(id.Name)
	}
	if profile.DisplayName == "" {
		profile.DisplayName = joinName(given, family)
	}

	if iat, ok := id.Claims["iat"].(*jwt.NumericDate); ok && iat != nil {
		profile.CreatedAt = iat.Time.UTC()
		profile.UpdatedAt = profile.CreatedAt
	}
	return profile, nil
}

// Issue signs a token for subject. It is used by tooling and tests that need
// to talk to a server configured with AUTH_PROVIDER=jwt.
func (p *JWTProvider) Issue(subject string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Subject = subject
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
