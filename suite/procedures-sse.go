package suite

import (
	"context"

	"github.com/lumafield/s3-api-suite/gateway"
)

func putBucketEncryption(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutBucketEncryption(ctx, fx.Bucket, gateway.SSEAlgorithmAES256)
}

func getBucketEncryption(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetBucketEncryption(ctx, fx.Bucket)
}

func deleteBucketEncryption(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteBucketEncryption(ctx, fx.Bucket)
}

func putObjectWithSSE(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObjectWithSSE(ctx, fx.Bucket, KeySSEObject, fx.TextFile, gateway.SSEAlgorithmAES256)
}

func getObjectWithSSE(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	dest := fx.DownloadPath(".txt")
	defer fx.RemoveFile(dest)
	return gw.GetObjectWithSSE(ctx, fx.Bucket, KeySSEObject, dest)
}
