// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/cefwatch/cefwatch/internal/builds"
	"github.com/cefwatch/cefwatch/internal/log"
)

// ObjectAPI is the subset of the S3 client the stash uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// S3 keeps one object per platform under Bucket/Prefix.
type S3 struct {
	Client ObjectAPI
	Bucket string
	Prefix string
}

// s3Options holds overrides applied when loading AWS config.
type s3Options struct {
	profile  string
	region   string
	endpoint string
}

// S3Option customizes NewS3. With no options the shell's AWS environment
// (AWS_PROFILE, shared config, env credentials, IMDS) is inherited.
type S3Option func(*s3Options)

// WithProfile selects a shared config profile.
func WithProfile(profile string) S3Option {
	return func(o *s3Options) { o.profile = profile }
}

// WithRegion overrides the region.
func WithRegion(region string) S3Option {
	return func(o *s3Options) { o.region = region }
}

// WithEndpoint points the client at an S3-compatible endpoint and enables
// path-style addressing.
func WithEndpoint(endpoint string) S3Option {
	return func(o *s3Options) { o.endpoint = endpoint }
}

// NewS3 builds an S3 store backed by an AWS SDK v2 client.
func NewS3(ctx context.Context, bucket, prefix string, opts ...S3Option) (*S3, error) {
	var o s3Options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("s3 stash opts: bucket=%s prefix=%s profile=%s region=%s", bucket, prefix, o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3v2.NewFromConfig(cfg, func(so *s3v2.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = awsv2.String(o.endpoint)
			so.UsePathStyle = true
		}
	})

	return &S3{Client: client, Bucket: bucket, Prefix: prefix}, nil
}

// Key returns the object key for platform.
func (s *S3) Key(platform string) string {
	return path.Join(s.Prefix, UnitName(platform))
}

// Load implements Store. A missing object is a first run.
func (s *S3) Load(ctx context.Context, platform string) (builds.PlatformState, bool, error) {
	key := s.Key(platform)
	loc := "s3://" + s.Bucket + "/" + key

	out, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			log.Debugf("no stash for %s at %s", platform, loc)
			return nil, false, nil
		}
		return nil, false, &Error{Kind: ErrStateUnavailable, Platform: platform, Location: loc, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, &Error{Kind: ErrStateUnavailable, Platform: platform, Location: loc, Err: err}
	}

	state, err := Decode(data)
	if err != nil {
		return nil, false, &Error{Kind: ErrStateUnavailable, Platform: platform, Location: loc, Err: err}
	}
	return state, true, nil
}

// Save implements Store. A single PutObject replaces the object atomically.
func (s *S3) Save(ctx context.Context, platform string, state builds.PlatformState) error {
	key := s.Key(platform)
	loc := "s3://" + s.Bucket + "/" + key

	data, err := Encode(state)
	if err != nil {
		return &Error{Kind: ErrStateWriteFailure, Platform: platform, Location: loc, Err: err}
	}

	_, err = s.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(s.Bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return &Error{Kind: ErrStateWriteFailure, Platform: platform, Location: loc, Err: err}
	}

	log.Debugf("stash write: platform=%s location=%s branches=%d", platform, loc, len(state))
	return nil
}

func (s *S3) String() string {
	return "stash-s3:" + s.Bucket + "/" + s.Prefix
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	// S3-compatible stores may answer with a bare error code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
