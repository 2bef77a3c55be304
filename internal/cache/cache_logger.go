package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateOfferingCache drops everything cached for a (program, session)
// pairing: the fee schedule and any dashboard aggregates derived from it
func InvalidateOfferingCache(ctx context.Context, cm *CacheManager, programID, sessionID uint) {
	SafeDelete(ctx, cm.Fees, fmt.Sprintf("program:%d:session:%d", programID, sessionID))
	SafeInvalidatePattern(ctx, cm.Catalog, "offerings:*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
