/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const s3PathPrefix = "ttswiss"

// S3Cache is an httpcache.Cache whose entries are objects in an S3 bucket.
// Object keys are the md5 of the cache key, optionally gzipped.
type S3Cache struct {
	client     *s3.Client
	bucketName string
	gzip       bool
	logger     *zap.Logger
	ctx        context.Context
}

// NewS3Cache wraps an existing client. Use InitS3Cache to build one from the
// default AWS configuration sources.
func NewS3Cache(ctx context.Context, client *s3.Client, bucketName string,
	gzip bool, logger *zap.Logger) *S3Cache {

	return &S3Cache{
		client:     client,
		bucketName: bucketName,
		gzip:       gzip,
		logger:     logger,
		ctx:        ctx,
	}
}

// InitS3Cache loads the default AWS configuration (environment variables,
// shared config and credentials files) and checks that the bucket can be
// read and listed.
func InitS3Cache(ctx context.Context, bucketName string, gzip bool,
	logger *zap.Logger) (*S3Cache, error) {

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "store.InitS3Cache: failed to load AWS config")
	}
	client := s3.NewFromConfig(awsCfg)

	if _, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	}); err != nil {
		return nil, errors.Wrapf(err, "store.InitS3Cache: head bucket failed for %v",
			bucketName)
	}
	if _, err = client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return nil, errors.Wrapf(err, "store.InitS3Cache: list objects failed for %v",
			bucketName)
	}

	return NewS3Cache(ctx, client, bucketName, gzip, logger), nil
}

func (c *S3Cache) Get(key string) ([]byte, bool) {
	objKey := c.objectKey(key)
	resp, err := c.client.GetObject(c.ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		// no such key just indicates a cache miss
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
			c.logger.Warn("store.S3Cache.Get: failed to get object",
				zap.String("bucket", c.bucketName), zap.String("key", objKey),
				zap.Error(err))
		}
		return nil, false
	}
	defer resp.Body.Close()

	rdr := io.Reader(resp.Body)
	if c.gzip {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.Warn("store.S3Cache.Get: failed to open compressed object",
				zap.String("key", objKey), zap.Error(err))
			return nil, false
		}
		defer gr.Close()
		rdr = gr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		c.logger.Warn("store.S3Cache.Get: failed to read object",
			zap.String("key", objKey), zap.Error(err))
		return nil, false
	}

	return data, true
}

// Set stores the provided data in the cache under the given key.
func (c *S3Cache) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if c.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			c.logger.Warn("store.S3Cache.Set: failed to gzip data",
				zap.String("key", *input.Key), zap.Error(err))
			return
		}
		if err := gw.Close(); err != nil {
			c.logger.Warn("store.S3Cache.Set: failed to close gzip writer",
				zap.String("key", *input.Key), zap.Error(err))
			return
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.client.PutObject(c.ctx, input); err != nil {
		c.logger.Warn("store.S3Cache.Set: put failed",
			zap.String("key", *input.Key), zap.Error(err))
	}
}

func (c *S3Cache) Delete(key string) {
	objKey := c.objectKey(key)
	_, err := c.client.DeleteObject(c.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
	})
	if err != nil {
		c.logger.Warn("store.S3Cache.Delete: delete failed",
			zap.String("key", objKey), zap.Error(err))
	}
}

func (c *S3Cache) objectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := fmt.Sprintf("%v/%v", s3PathPrefix, hex.EncodeToString(h.Sum(nil)))
	if c.gzip {
		objKey += ".gz"
	}

	return objKey
}
