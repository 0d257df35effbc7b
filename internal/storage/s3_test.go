package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Service_RequiresBucket(t *testing.T) {
	_, err := NewS3Service(S3Config{})
	assert.Error(t, err)
}

func TestPutObject_RejectsNonJSON(t *testing.T) {
	svc, err := NewS3Service(S3Config{
		Bucket:    "charts",
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	err = svc.PutObject(context.Background(), "charts/x.svg", "image/svg+xml", []byte("<svg/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid content type")
}

func TestGenerateDownloadURL_MinIOPathStyle(t *testing.T) {
	svc, err := NewS3Service(S3Config{
		Bucket:    "charts",
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	url, err := svc.GenerateDownloadURL(context.Background(), "charts/abc.json")
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/charts/charts/abc.json")
	assert.Contains(t, url, "X-Amz-Signature")
}
