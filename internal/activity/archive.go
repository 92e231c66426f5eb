package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/edvin/launchpad/internal/model"
)

// Archive contains the audit archive activity. Every final
// OrchestrationResult is written to an S3 bucket so run ledgers survive
// beyond the history table's retention.
type Archive struct {
	endpoint  string
	accessKey string
	secretKey string
	bucket    string
}

func NewArchive(endpoint, accessKey, secretKey, bucket string) *Archive {
	return &Archive{endpoint: endpoint, accessKey: accessKey, secretKey: secretKey, bucket: bucket}
}

// s3Client returns an S3 client for the configured object store endpoint.
func (a *Archive) s3Client() *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(a.endpoint),
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider(a.accessKey, a.secretKey, ""),
		UsePathStyle: true,
	})
}

// ArchiveRunResultParams holds parameters for ArchiveRunResult.
type ArchiveRunResultParams struct {
	RunID  string                     `json:"run_id"`
	Slug   string                     `json:"slug"`
	Result *model.OrchestrationResult `json:"result"`
}

// ArchiveRunResult uploads the result document as JSON under
// provisions/{slug}/{run_id}.json.
func (a *Archive) ArchiveRunResult(ctx context.Context, params ArchiveRunResultParams) error {
	// archiving is optional; without an endpoint the activity is a no-op
	if a.endpoint == "" {
		return nil
	}

	body, err := json.MarshalIndent(params.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run result: %w", err)
	}

	key := fmt.Sprintf("provisions/%s/%s.json", params.Slug, params.RunID)
	_, err = a.s3Client().PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"slug":        params.Slug,
			"archived-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("archive run %s: %w", params.RunID, err)
	}
	return nil
}
