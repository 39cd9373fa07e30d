package auth

// TokenVerifier validates bearer tokens for the auth middleware
type TokenVerifier interface {
	// VerifyToken validates a JWT and returns its claims. Any invalid, expired
	// or wrongly signed token yields domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*Claims, error)

	// Close releases resources held by the verifier
	Close() error
}
