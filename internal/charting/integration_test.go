package charting

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/RMahshie/audiogram/internal/plot"
	"github.com/RMahshie/audiogram/internal/repository/postgres"
	"github.com/RMahshie/audiogram/internal/storage"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	miniogo "github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	minioContainer    testcontainers.Container
	dbURL             string
	minioURL          string
	bucketName        string
}

// SetupIntegrationTest sets up PostgreSQL and MinIO containers for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()

	ctx := context.Background()

	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("audiogram_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	minioContainer, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)

	minioURL, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	bucketName := "audiogram-test-" + uuid.New().String()[:8]
	require.NoError(t, createMinioBucket(ctx, minioURL, bucketName))

	return &TestContainer{
		postgresContainer: pg,
		minioContainer:    minioContainer,
		dbURL:             dbURL,
		minioURL:          minioURL,
		bucketName:        bucketName,
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.minioContainer != nil {
		require.NoError(t, tc.minioContainer.Terminate(ctx))
	}
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(ctx))
	}
}

func createMinioBucket(ctx context.Context, minioURL, bucketName string) error {
	client, err := miniogo.New(minioURL, &miniogo.Options{
		Creds:  miniocreds.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		return err
	}
	return client.MakeBucket(ctx, bucketName, miniogo.MakeBucketOptions{})
}

func TestExportChart_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, postgres.Migrate(ctx, db))

	repo := postgres.NewPostgresAudiogramRepository(db)

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	id := uuid.New()
	a := sampleAudiogram(id)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	require.NoError(t, repo.Create(ctx, a))

	svc := NewChartService(s3Service, repo)
	export, err := svc.ExportChart(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, export.DownloadURL)

	stored, err := repo.GetExport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, export.S3Key, stored.S3Key)

	data, err := s3Service.DownloadFile(ctx, stored.S3Key)
	require.NoError(t, err)

	var chart plot.Chart
	require.NoError(t, json.Unmarshal(data, &chart))
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "O", chart.Series[0].Markers[0].Symbol)
	assert.Equal(t, "X↓", chart.Series[1].Markers[1].Symbol)

	// Exporting again moves the record to a fresh object and drops the old one
	again, err := svc.ExportChart(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, export.S3Key, again.S3Key)

	stored, err = repo.GetExport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, again.S3Key, stored.S3Key)

	_, err = s3Service.DownloadFile(ctx, export.S3Key)
	assert.Error(t, err)
}
