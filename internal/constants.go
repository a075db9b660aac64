/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent       = "ttswiss/0.4.0 (+https://github.com/mikeb26/ttswiss)"
	DefaultStoreDir = ".ttswiss"
	DefaultHTTPAddr = ":8080"
	// RosterMaxAge is how long fetched roster pages are served from cache.
	RosterMaxAge = 15 * time.Minute
)
