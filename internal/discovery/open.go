package discovery

import (
	"context"

	"evalcmp/internal/config"
	"evalcmp/internal/spec"
)

// Open picks an S3 source for s3:// roots and a filesystem source otherwise.
func Open(ctx context.Context, root, benchmark string, cfg spec.S3Config) (Source, error) {
	if config.IsS3URL(root) {
		return NewS3Source(ctx, root, benchmark, cfg)
	}
	return NewFSSource(root, benchmark), nil
}
