package storekit

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jessedraper/partydeck/internal/domain"
)

// ErrVerification marks a transaction whose signature or payload failed
// verification.
var ErrVerification = errors.New("transaction verification failed")

// transactionClaims is the JWS payload of a signed transaction. Dates are
// millisecond epoch timestamps.
type transactionClaims struct {
	ProductID    string `json:"productId"`
	Kind         string `json:"kind"`
	PurchaseDate int64  `json:"purchaseDate"`
	ExpiresDate  *int64 `json:"expiresDate,omitempty"`
	jwt.RegisteredClaims
}

// verifyTransaction checks the ES256 signature and shape of one signed
// transaction and maps it into a domain entitlement.
func (c *Client) verifyTransaction(signed string) (*domain.Entitlement, error) {
	var claims transactionClaims
	_, err := jwt.ParseWithClaims(signed, &claims,
		func(token *jwt.Token) (any, error) { return c.verifyKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	if claims.ProductID == "" {
		return nil, fmt.Errorf("%w: missing product id", ErrVerification)
	}
	kind := domain.SubscriptionKind(claims.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrVerification, claims.Kind)
	}
	if claims.PurchaseDate == 0 {
		return nil, fmt.Errorf("%w: missing purchase date", ErrVerification)
	}

	ent := &domain.Entitlement{
		ProductID:   claims.ProductID,
		Kind:        kind,
		PurchasedAt: msToTime(claims.PurchaseDate),
	}
	if claims.ExpiresDate != nil {
		expires := msToTime(*claims.ExpiresDate)
		ent.ExpiresAt = &expires
	}
	return ent, nil
}
