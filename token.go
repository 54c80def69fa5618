package policylens

import "context"

// TokenCounter counts model tokens in a text. Reports record the token
// count of the analyzed policy.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
