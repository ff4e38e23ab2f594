package suite

import (
	"context"

	"github.com/lumafield/s3-api-suite/gateway"
)

const (
	retentionDays        = 7
	defaultRetentionDays = 30
)

func createBucketWithObjectLock(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	res := gw.CreateBucketWithObjectLock(ctx, fx.LockBucket)
	if res.OK() {
		fx.MarkCreated(fx.LockBucket)
	}
	return res
}

func getObjectLockConfiguration(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetObjectLockConfiguration(ctx, fx.LockBucket)
}

// putObjectLockConfiguration sets the default retention. It runs after the
// object tests so their uploads are not retained for 30 days.
func putObjectLockConfiguration(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObjectLockConfiguration(ctx, fx.LockBucket, gateway.LockModeGovernance, defaultRetentionDays)
}

// putObjectRetention uploads its object to the lock bucket before setting
// the retention on it.
func putObjectRetention(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	if res := gw.PutObject(ctx, fx.LockBucket, KeyLockObject, fx.TextFile); !res.OK() {
		return res
	}
	return gw.PutObjectRetention(ctx, fx.LockBucket, KeyLockObject, gateway.LockModeGovernance, retentionDays)
}

func getObjectRetention(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetObjectRetention(ctx, fx.LockBucket, KeyLockObject)
}

func putObjectLegalHold(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObjectLegalHold(ctx, fx.LockBucket, KeyLockObject, true)
}

func getObjectLegalHold(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetObjectLegalHold(ctx, fx.LockBucket, KeyLockObject)
}
