package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinIOClient_RequiresBucket(t *testing.T) {
	_, err := NewMinIOClient(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

func TestNewMinIOClient_DefaultsRegion(t *testing.T) {
	client, err := NewMinIOClient(Config{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "pdfops-history",
	})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", client.config.Region)
	assert.Equal(t, "pdfops-history", client.BucketName())
}

func TestArchiveStore_DownloadURL_IsSignedLocally(t *testing.T) {
	client, err := NewMinIOClient(Config{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "pdfops-history",
		Region:          "us-east-1",
	})
	require.NoError(t, err)

	u, err := NewArchiveStore(client).DownloadURL(context.Background(), "history/2024/01/a.csv", "a.csv", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/pdfops-history/history/2024/01/a.csv?"))
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "response-content-disposition=")
}
