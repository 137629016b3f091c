package cron

import (
	"context"
	"time"
)

const (
	JobPurgeExpiredCallbacks = "purge_expired_callbacks"
	JobSweepOrphanCourses    = "sweep_orphan_courses"
	JobCleanupTokenBlacklist = "cleanup_token_blacklist"
)

// CallbackPurger deletes callback requests past their expiry
type CallbackPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// OrphanSweeper removes course records whose college is gone
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// TokenCleaner drops revoked tokens that have expired anyway
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// DefaultJobs is the production schedule
func DefaultJobs(callbacks CallbackPurger, courses OrphanSweeper, tokens TokenCleaner) []Job {
	return []Job{
		{
			// Every 10 minutes; stands in for a TTL index
			Name:    JobPurgeExpiredCallbacks,
			Spec:    "0 */10 * * * *",
			Timeout: time.Minute,
			Run:     callbacks.PurgeExpired,
		},
		{
			// Hourly: catches course rows left by a cascade that lost its second half
			Name:    JobSweepOrphanCourses,
			Spec:    "0 0 * * * *",
			Timeout: 5 * time.Minute,
			Run:     courses.SweepOrphans,
		},
		{
			// Daily at 3 AM
			Name:    JobCleanupTokenBlacklist,
			Spec:    "0 0 3 * * *",
			Timeout: 5 * time.Minute,
			Run:     tokens.CleanupExpiredTokens,
		},
	}
}
