package domain

// TokenKind differentiates short-lived access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenTypeBearer is the only token type the service issues.
const TokenTypeBearer = "Bearer"

// TokenPair is the credential set returned by login and refresh. Tokens are
// value objects: nothing is persisted, validity is a function of signature
// and expiry alone.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}
