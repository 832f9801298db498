package envelope

import (
	"encoding/base64"
	"fmt"

	perrors "github.com/pqseal/pqseal/internal/errors"
)

// EncodeToString returns the textual form of a packed envelope: standard
// base64 with padding and no line wrapping.
func EncodeToString(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeString decodes the textual form back to the packed binary form.
// Malformed base64 fails with ErrInvalidEncoding, before any structural or
// cryptographic processing. Interior line breaks are tolerated, as is
// standard for base64 decoders; any other deviation fails.
func DecodeString(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrInvalidEncoding, err)
	}
	return data, nil
}
