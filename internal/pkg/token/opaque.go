package token

import (
	"crypto/rand"
	"encoding/base64"
)

// 64 bytes of entropy per refresh token.
const opaqueTokenBytes = 64

// NewOpaque returns an unpredictable opaque token for use as a refresh token.
// The value is only ever compared, never decoded.
func NewOpaque() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
