// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage archives raw scraped HTML to S3-compatible object
// storage. Every page the ingest pipeline fetches can be snapshotted so
// extraction regressions are reproducible against the exact markup that
// was live at scrape time. It wraps the AWS SDK v2 and is configured
// for path-style access (required by CEPH/Hetzner).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const snapshotPrefix = "snapshots/"

// Client wraps an S3 client for snapshot operations on a single bucket.
// A nil *Client is valid and disables archiving.
type Client struct {
	s3     *s3.Client
	bucket string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// run without an archive.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: s3Client, bucket: bucket}, nil
}

// SnapshotKey builds the object key for a course page fetched at a given
// time. Keys sort chronologically within a course prefix.
func SnapshotKey(zCode string, fetchedAt time.Time) string {
	return fmt.Sprintf("%s%s/%s.html", snapshotPrefix, zCode, fetchedAt.UTC().Format("2006-01-02T15-04-05Z"))
}

// ArchiveSnapshot stores the raw HTML of a fetched course page and
// returns the object key. Safe to call on a nil client, which reports
// an empty key and no error.
func (c *Client) ArchiveSnapshot(ctx context.Context, zCode string, fetchedAt time.Time, html []byte) (string, error) {
	if c == nil {
		return "", nil
	}

	key := SnapshotKey(zCode, fetchedAt)
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(html),
		ContentLength: aws.Int64(int64(len(html))),
		ContentType:   aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 archive %s/%s: %w", c.bucket, key, err)
	}
	return key, nil
}

// ReadSnapshot retrieves an archived page by its object key.
func (c *Client) ReadSnapshot(ctx context.Context, key string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("s3 read %s: archive not configured", key)
	}

	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", c.bucket, key, err)
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", c.bucket, key, err)
	}
	return data, nil
}

// ListSnapshots returns the object keys archived for a course, oldest
// first.
func (c *Client) ListSnapshots(ctx context.Context, zCode string) ([]string, error) {
	if c == nil {
		return nil, nil
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(snapshotPrefix + zCode + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s/%s: %w", c.bucket, zCode, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
