package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRef(t *testing.T) {
	store := &S3Store{defaultBucket: "resumes"}

	tests := []struct {
		name       string
		ref        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3 scheme", "s3://other-bucket/2024/resume.pdf", "other-bucket", "2024/resume.pdf", false},
		{"https object url", "https://resumes.example.com/uploads/cv.docx", "resumes", "uploads/cv.docx", false},
		{"bare key", "uploads/cv.pdf", "resumes", "uploads/cv.pdf", false},
		{"empty ref", "", "", "", true},
		{"s3 without key", "s3://bucket-only", "", "", true},
		{"https without path", "https://resumes.example.com/", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := store.resolveRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				var refErr *ErrUnsupportedRef
				assert.ErrorAs(t, err, &refErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestContentTypeForRef(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForRef("uploads/resume.PDF"))
	assert.Equal(t, "application/pdf", ContentTypeForRef("resume.pdf?X-Amz-Signature=abc"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		ContentTypeForRef("cv.docx"))
	assert.Equal(t, "text/plain", ContentTypeForRef("notes.txt"))
	assert.Equal(t, "application/octet-stream", ContentTypeForRef("resume"))
}
