package suite

import (
	"context"

	"github.com/lumafield/s3-api-suite/gateway"
)

var (
	bucketTags = map[string]string{"Environment": "Test", "Project": "S3Automation"}
	corsRules  = []gateway.CORSRule{{
		AllowedMethods: []string{"GET", "PUT"},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	}}
)

func createBucket(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	res := gw.CreateBucket(ctx, fx.Bucket)
	if res.OK() {
		fx.MarkCreated(fx.Bucket)
	}
	return res
}

// deleteBucket empties the bucket first; a versioned bucket still holds
// versions and delete markers at this point.
func deleteBucket(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	if res := gw.EmptyBucket(ctx, fx.Bucket); !res.OK() {
		return res
	}
	res := gw.DeleteBucket(ctx, fx.Bucket)
	if res.OK() {
		fx.MarkDeleted(fx.Bucket)
	}
	return res
}

func headBucket(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.HeadBucket(ctx, fx.Bucket)
}

func getBucketLocation(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketLocation(ctx, fx.Bucket)
}

func enableBucketVersioning(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.EnableBucketVersioning(ctx, fx.Bucket)
}

func getBucketVersioning(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	res := gw.GetBucketVersioning(ctx, fx.Bucket)
	if res.OK() && res.Text("versioning_status") != "Enabled" {
		return res.Fail("Expected versioning status Enabled, got %s", res.Text("versioning_status"))
	}
	return res
}

func suspendBucketVersioning(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.SuspendBucketVersioning(ctx, fx.Bucket)
}

func putBucketACL(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutBucketACL(ctx, fx.Bucket, gateway.ACLPrivate)
}

func getBucketACL(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketACL(ctx, fx.Bucket)
}

func putBucketTagging(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutBucketTagging(ctx, fx.Bucket, bucketTags)
}

func getBucketTagging(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketTagging(ctx, fx.Bucket)
}

func deleteBucketTagging(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteBucketTagging(ctx, fx.Bucket)
}

func putBucketCORS(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutBucketCORS(ctx, fx.Bucket, corsRules)
}

func getBucketCORS(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketCORS(ctx, fx.Bucket)
}

func deleteBucketCORS(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteBucketCORS(ctx, fx.Bucket)
}

func putBucketPolicy(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutBucketPolicy(ctx, fx.Bucket, gateway.DefaultBucketPolicy(fx.Bucket))
}

func getBucketPolicy(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketPolicy(ctx, fx.Bucket)
}

func deleteBucketPolicy(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteBucketPolicy(ctx, fx.Bucket)
}

func putPublicAccessBlock(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutPublicAccessBlock(ctx, fx.Bucket, true)
}

func getPublicAccessBlock(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetPublicAccessBlock(ctx, fx.Bucket)
}
