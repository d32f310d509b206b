// Package backup exports the recipe collection to S3 as a JSON snapshot.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/store"
)

// ObjectPutter is the part of the S3 client used by the exporter
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is the document written for each export
type Snapshot struct {
	ExportedAt time.Time      `json:"exported_at"`
	Count      int            `json:"count"`
	Recipes    []model.Recipe `json:"recipes"`
}

// S3Exporter writes snapshots of a recipe store to a bucket
type S3Exporter struct {
	store  store.RecipeStore
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
	logger *slog.Logger
}

// NewS3Exporter creates an exporter writing under prefix in bucket
func NewS3Exporter(s store.RecipeStore, client ObjectPutter, bucket, prefix string, logger *slog.Logger) *S3Exporter {
	return &S3Exporter{
		store:  s,
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("component", "backup"),
	}
}

// ObjectKey returns the key of a snapshot taken at t
func (e *S3Exporter) ObjectKey(t time.Time) string {
	return path.Join(e.prefix, fmt.Sprintf("recipes-%s.json", t.UTC().Format("20060102T150405Z")))
}

// Export scans the store once and uploads the result. It returns the
// object key and the number of recipes written.
func (e *S3Exporter) Export(ctx context.Context) (string, int, error) {
	recipes, err := e.store.Scan(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("failed to scan recipes: %w", err)
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	now := e.now()
	body, err := json.Marshal(Snapshot{ExportedAt: now, Count: len(recipes), Recipes: recipes})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := e.ObjectKey(now)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload to S3: %w", err)
	}

	e.logger.Info("exported recipes", "bucket", e.bucket, "key", key, "count", len(recipes))
	return key, len(recipes), nil
}
