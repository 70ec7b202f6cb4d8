// Package docstore resolves resume references to raw document bytes.
package docstore

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Store resolves a resume reference to raw bytes plus a content type hint.
// An unresolvable or malformed reference is an error; the extractor decides
// whether that degrades or fails the caller.
type Store interface {
	Fetch(ctx context.Context, ref string) ([]byte, string, error)
}

// ContentTypeForRef guesses a MIME type from a reference's file extension.
// Unknown extensions default to application/octet-stream.
func ContentTypeForRef(ref string) string {
	switch strings.ToLower(path.Ext(strings.SplitN(ref, "?", 2)[0])) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// ErrUnsupportedRef indicates a reference shape the store cannot resolve.
type ErrUnsupportedRef struct {
	Ref string
}

func (e *ErrUnsupportedRef) Error() string {
	return fmt.Sprintf("unsupported document reference: %s", e.Ref)
}
