// Package auth implements issuance and verification of the signed access
// tokens that carry identity and authorization claims between the API and
// its clients.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/teamsphere/api/internal/common"
)

// Claims is the access-token payload: registered claims plus the email and
// comma-joined authorities custom claims.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Authorities string `json:"authorities"`
}

// Identity is the verified result of decoding an access token.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Authorities []string
}

// Codec signs and verifies access tokens with an RSA key pair. It is
// stateless and safe for concurrent use.
type Codec struct {
	keys     *KeyMaterial
	issuer   string
	audience string
	validity time.Duration
}

func NewCodec(keys *KeyMaterial, issuer, audience string, validity time.Duration) *Codec {
	return &Codec{keys: keys, issuer: issuer, audience: audience, validity: validity}
}

// Issue builds and signs an access token for the given user. The token is
// valid from now until now+validity; authorities are serialized as a
// deduplicated comma-joined set.
func (c *Codec) Issue(userID uuid.UUID, email string, authorities []string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
		Email:       email,
		Authorities: JoinAuthorities(authorities),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signed, err := token.SignedString(c.keys.private)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses the token, checks its signature against the public key and
// validates its claims as of the supplied time. Failures map onto the
// sentinel errors in common:
//
//   - common.ErrTokenExpired   — exp < now (reported even when other claim
//     checks would also fail)
//   - common.ErrWrongAudience  — aud does not match the configured audience
//   - common.ErrMissingClaims  — email or authorities claim absent
//   - common.ErrTokenMalformed — anything structurally or cryptographically
//     wrong, including an unparsable subject
func (c *Codec) Verify(tokenString string, now time.Time) (*Identity, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.keys.public, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenMalformed
	}

	if !c.audienceMatches(claims.Audience) {
		return nil, common.ErrWrongAudience
	}

	if claims.Email == "" || claims.Authorities == "" {
		return nil, common.ErrMissingClaims
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, common.ErrTokenMalformed
	}

	return &Identity{
		UserID:      userID,
		Email:       claims.Email,
		Authorities: SplitAuthorities(claims.Authorities),
	}, nil
}

func (c *Codec) audienceMatches(aud jwt.ClaimStrings) bool {
	for _, a := range aud {
		if a == c.audience {
			return true
		}
	}
	return false
}
