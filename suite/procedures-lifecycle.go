package suite

import (
	"context"

	"github.com/lumafield/s3-api-suite/gateway"
)

func putBucketLifecycle(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutBucketLifecycle(ctx, fx.Bucket, gateway.DefaultLifecycleRules())
}

func getBucketLifecycle(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketLifecycle(ctx, fx.Bucket)
}

func deleteBucketLifecycle(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteBucketLifecycle(ctx, fx.Bucket)
}
