package domain

// Credential entropy in bytes. Hex encoding doubles the character count, so an
// authorization code or token string is at least 80 characters long.
const (
	AuthCodeByteLength   = 40
	TokenByteLength      = 64
	SignupCodeByteLength = 20
)

// TokenGenerator produces unguessable opaque credential strings from a
// cryptographically secure random source.
type TokenGenerator interface {
	// Generate returns a hex string of byteLength bytes of entropy
	Generate(byteLength int) (string, error)
}
