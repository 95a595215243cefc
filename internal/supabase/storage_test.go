package supabase_test

import (
	"testing"

	"gigexecs-backend/internal/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageClient_PublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://abc.supabase.co/", "key")
	require.NoError(t, err)

	url := client.PublicURL("gig-attachments", "users/u1/attachment/1700000000-brief.pdf")
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/gig-attachments/users/u1/attachment/1700000000-brief.pdf", url)

	bucket, path, ok := client.ParsePublicURL(url)
	require.True(t, ok)
	assert.Equal(t, "gig-attachments", bucket)
	assert.Equal(t, "users/u1/attachment/1700000000-brief.pdf", path)
}

func TestPathFromPublicURL_Rejects(t *testing.T) {
	base := "https://abc.supabase.co"
	tests := []string{
		"",
		"not a url",
		"https://evil.example.com/storage/v1/object/public/b/users/u1/x.png",
		"https://abc.supabase.co/storage/v1/object/sign/b/users/u1/x.png",
		"https://abc.supabase.co/storage/v1/object/public/b",
		"https://abc.supabase.co/storage/v1/object/public/b/users/../x.png",
		"https://abc.supabase.co/storage/v1/object/public/b/users//x.png",
	}
	for _, raw := range tests {
		_, _, ok := supabase.PathFromPublicURL(base, raw)
		assert.False(t, ok, raw)
	}
}

func TestNewStorageClient_EmptyURL(t *testing.T) {
	_, err := supabase.NewStorageClient("", "key")
	assert.Error(t, err)
}
