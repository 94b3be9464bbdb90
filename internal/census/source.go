// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package census

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	awsx "github.com/srbutler1/hmdactl/internal/aws"
)

// Source opens the raw census flat file for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// ResolveSource maps a location spec to a Source: "s3://bucket/key" becomes
// an S3 object, anything else a local file path.
func ResolveSource(location string) (Source, error) {
	if strings.HasPrefix(location, "s3://") {
		rest := strings.TrimPrefix(location, "s3://")
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid S3 location %q: want s3://bucket/key", location)
		}
		return &S3Source{Bucket: bucket, Key: key}, nil
	}
	if location == "" {
		return nil, fmt.Errorf("census file location is not set")
	}
	return &FileSource{Path: location}, nil
}

// FileSource reads the flat file from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open census file: %w", err)
	}
	return f, nil
}

func (s *FileSource) String() string {
	return s.Path
}

// S3Source reads the flat file from an S3 object using the ambient AWS
// credential chain.
type S3Source struct {
	Bucket string
	Key    string
	Region string
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	var opts []awsx.Option
	if s.Region != "" {
		opts = append(opts, awsx.WithRegion(s.Region))
	}
	cfg, err := awsx.LoadConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := awsx.NewS3(cfg)
	obj, err := svc.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}

	return obj.Body, nil
}

func (s *S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}
