package checks

import (
	"context"
	"fmt"

	"vonatinfo/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageReport is the result of the bucket check.
type StorageReport struct {
	Bucket  string   `json:"bucket"`
	Status  string   `json:"status"`
	Missing []string `json:"missing"`
}

// CheckStorage verifies that bucket exists and holds prefix+name for every
// name.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string, names []string) (*StorageReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	report := &StorageReport{Bucket: bucket, Status: StatusOK, Missing: []string{}}
	for _, name := range names {
		key := prefix + name
		_, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
		if err == nil {
			continue
		}
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return nil, fmt.Errorf("stat %s: %w", key, err)
		}
		report.Missing = append(report.Missing, key)
		report.Status = StatusError
	}
	return report, nil
}
