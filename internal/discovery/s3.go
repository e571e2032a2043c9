package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"evalcmp/internal/spec"
)

// Environment variables holding static S3 credentials. When unset the default
// AWS credential chain applies.
const (
	EnvS3AccessKey = "EVALCMP_S3_ACCESS_KEY"
	EnvS3SecretKey = "EVALCMP_S3_SECRET_KEY"
)

const defaultS3Region = "us-east-1"

// S3API is the subset of the S3 client the source uses.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads artifacts laid out like the results tree under a bucket prefix.
type S3Source struct {
	client S3API
	bucket string
	prefix string
	layout Layout
}

// NewS3SourceWithClient builds a source on an existing client.
func NewS3SourceWithClient(client S3API, bucket, prefix, benchmark string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), layout: Layout{Benchmark: benchmark}}
}

// NewS3Source connects to the bucket named by rootURL (s3://bucket/prefix).
func NewS3Source(ctx context.Context, rootURL, benchmark string, cfg spec.S3Config) (*S3Source, error) {
	bucket, prefix, err := ParseS3URL(rootURL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	access, secret := os.Getenv(EnvS3AccessKey), os.Getenv(EnvS3SecretKey)
	if access != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(access, secret, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return NewS3SourceWithClient(client, bucket, prefix, benchmark), nil
}

// Latest lists the model's keys and loads the greatest run holding a report.
func (s *S3Source) Latest(ctx context.Context, modelID string) (Artifact, error) {
	modelPrefix := s.key(modelID) + "/"
	reportSuffix := "/" + s.layout.reportPath()

	runs := map[string]struct{}{}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(modelPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return Artifact{}, fmt.Errorf("list s3://%s/%s: %w", s.bucket, modelPrefix, err)
		}
		for _, object := range page.Contents {
			rest := strings.TrimPrefix(aws.ToString(object.Key), modelPrefix)
			runID, tail, ok := strings.Cut(rest, "/")
			if !ok || runID == "" || "/"+tail != reportSuffix {
				continue
			}
			runs[runID] = struct{}{}
		}
	}
	if len(runs) == 0 {
		return Artifact{}, fmt.Errorf("no runs found under s3://%s/%s: %w", s.bucket, modelPrefix, ErrNotFound)
	}
	runIDs := make([]string, 0, len(runs))
	for runID := range runs {
		runIDs = append(runIDs, runID)
	}
	sort.Strings(runIDs)
	runID := runIDs[len(runIDs)-1]

	reportKey := modelPrefix + runID + reportSuffix
	document, err := s.get(ctx, reportKey)
	if err != nil {
		return Artifact{}, err
	}
	artifact := Artifact{
		ModelID:  modelID,
		RunID:    runID,
		Location: fmt.Sprintf("s3://%s/%s", s.bucket, reportKey),
		Document: string(document),
	}

	summaryKey := modelPrefix + runID + "/" + s.layout.summaryPath()
	data, err := s.get(ctx, summaryKey)
	switch {
	case err == nil:
		artifact.Summary, artifact.SummaryErr = decodeSummary(data, summaryKey)
	case ctx.Err() != nil:
		return Artifact{}, ctx.Err()
	case !errors.Is(err, ErrNotFound):
		artifact.SummaryErr = err
	}
	return artifact, nil
}

func (s *S3Source) key(part string) string {
	if s.prefix == "" {
		return part
	}
	return s.prefix + "/" + part
}

func (s *S3Source) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}
