package blob

import (
	"context"

	infraS3 "pipelinetracker/internal/infra/blob/s3"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// NewS3 constructs an S3-backed Store from cfg.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	store, err := infraS3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMockS3 returns an S3 Store backed by an in-process fake of the S3 API.
// Used by tests outside the infra tree.
func NewMockS3(ctx context.Context) (Store, error) {
	store, err := infraS3.NewMock(ctx)
	if err != nil {
		return nil, err
	}
	return store, nil
}
