package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/golang-jwt/jwt/v5"
)

// RevocationStore reports the moment before which a subject's tokens are no longer honored
type RevocationStore interface {
	ValidSince(ctx context.Context, subject string) (time.Time, error)
	Revoke(ctx context.Context, subject string) error
}

// Verifier validates bearer credentials and yields the verified subject
type Verifier struct {
	secret      []byte
	issuer      string
	audience    string
	revocations RevocationStore
}

// NewVerifier creates a verifier for HS256-signed tokens. revocations may be nil.
func NewVerifier(secret, issuer, audience string, revocations RevocationStore) *Verifier {
	return &Verifier{
		secret:      []byte(secret),
		issuer:      issuer,
		audience:    audience,
		revocations: revocations,
	}
}

// ParseBearer extracts the token from an Authorization header value
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", apperror.New(apperror.KindUnauthenticated, "Not authenticated: No Authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.New(apperror.KindUnauthenticated, "Invalid authentication credentials: Malformed Authorization header")
	}
	return parts[1], nil
}

// Verify checks the Authorization header and returns the token subject
func (v *Verifier) Verify(ctx context.Context, header string) (string, error) {
	tokenString, err := ParseBearer(header)
	if err != nil {
		return "", err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", apperror.Wrap(apperror.KindTokenInvalid, "Invalid token", err)
	}
	if claims.Subject == "" {
		return "", apperror.New(apperror.KindTokenInvalid, "Invalid token: missing subject")
	}

	if v.revocations != nil {
		validSince, err := v.revocations.ValidSince(ctx, claims.Subject)
		if err != nil {
			return "", apperror.Wrap(apperror.KindVerificationUnavailable, "Could not process token", err)
		}
		if !validSince.IsZero() {
			if claims.IssuedAt == nil || claims.IssuedAt.Time.Before(validSince) {
				return "", apperror.New(apperror.KindTokenRevoked, "Token revoked, please re-authenticate.")
			}
		}
	}

	return claims.Subject, nil
}

// Revoke invalidates every token issued to subject before now
func (v *Verifier) Revoke(ctx context.Context, subject string) error {
	if v.revocations == nil {
		return apperror.New(apperror.KindVerificationUnavailable, "token revocation is not configured")
	}
	if err := v.revocations.Revoke(ctx, subject); err != nil {
		return apperror.Wrap(apperror.KindVerificationUnavailable, "failed to revoke tokens", err)
	}
	return nil
}

// IssueToken signs a token for subject. Used by tooling and tests; the service itself
// does not mint credentials.
func IssueToken(secret, subject string, issuedAt time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
