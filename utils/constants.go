// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the upper bound on how long a verified ID token stays cached.
const AuthCacheTTL = 10 * time.Minute

// LotStatusKey holds the latest detector snapshot in the cache DB.
const LotStatusKey = "lot:status"
