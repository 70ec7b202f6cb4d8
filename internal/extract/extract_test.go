package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore returns canned bytes or an error for any reference.
type fakeStore struct {
	data        []byte
	contentType string
	err         error
}

func (f *fakeStore) Fetch(_ context.Context, _ string) ([]byte, string, error) {
	return f.data, f.contentType, f.err
}

func TestResumeText_PlainText(t *testing.T) {
	store := &fakeStore{data: []byte("Experienced Go engineer."), contentType: "text/plain"}
	text := ResumeText(context.Background(), store, "resume.txt", zap.NewNop())
	assert.Equal(t, "Experienced Go engineer.", text)
}

func TestResumeText_EmptyRef(t *testing.T) {
	text := ResumeText(context.Background(), &fakeStore{}, "", zap.NewNop())
	assert.Equal(t, "", text)
}

func TestResumeText_StoreFailureDegrades(t *testing.T) {
	store := &fakeStore{err: errors.New("store unavailable")}
	text := ResumeText(context.Background(), store, "resume.pdf", zap.NewNop())
	assert.Equal(t, "", text)
}

func TestResumeText_UnsupportedFormatDegrades(t *testing.T) {
	store := &fakeStore{data: []byte{0x50, 0x4b}, contentType: "image/png"}
	text := ResumeText(context.Background(), store, "resume.png", zap.NewNop())
	assert.Equal(t, "", text)
}

func TestResumeText_CorruptPDFDegrades(t *testing.T) {
	store := &fakeStore{data: []byte("definitely not a pdf"), contentType: "application/pdf"}
	text := ResumeText(context.Background(), store, "resume.pdf", zap.NewNop())
	assert.Equal(t, "", text)
}

func TestResumeText_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxResumeChars+500)
	store := &fakeStore{data: []byte(long), contentType: "text/plain"}

	text := ResumeText(context.Background(), store, "resume.txt", zap.NewNop())
	assert.Len(t, text, maxResumeChars)
}

func TestText_ContentTypeParameters(t *testing.T) {
	text, err := Text("text/plain; charset=utf-8", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("  abc  ", 10))
	// Rune boundaries, not byte boundaries.
	assert.Equal(t, "hél", Truncate("héllo", 3))
}
