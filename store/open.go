/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/peterbourgon/diskv"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/internal/config"
)

const diskCacheSizeMax = 16 * 1024 * 1024

// Open picks the cache backend for cfg: the S3 bucket when one is configured
// and reachable, otherwise the local store directory.
func Open(ctx context.Context, cfg *config.Config,
	logger *zap.Logger) httpcache.Cache {

	if cfg.StoreBucket != "" {
		cache, err := InitS3Cache(ctx, cfg.StoreBucket, true, logger)
		if err == nil {
			logger.Debug("store.Open: using s3", zap.String("bucket",
				cfg.StoreBucket))
			return cache
		}
		logger.Warn("store.Open: failed to init S3 cache; falling back to disk",
			zap.String("bucket", cfg.StoreBucket), zap.Error(err))
	}

	logger.Debug("store.Open: using disk", zap.String("dir", cfg.StoreDir))
	return NewDiskCache(cfg.StoreDir)
}

// NewDiskCache stores entries below dir, sharded by the first two characters
// of the hashed key.
func NewDiskCache(dir string) *diskcache.Cache {
	return diskcache.NewWithDiskv(diskv.New(diskv.Options{
		BasePath: dir,
		Transform: func(key string) []string {
			if len(key) < 2 {
				return []string{}
			}
			return []string{key[:2]}
		},
		CacheSizeMax: diskCacheSizeMax,
	}))
}
