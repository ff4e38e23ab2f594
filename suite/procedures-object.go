package suite

import (
	"context"

	"github.com/lumafield/s3-api-suite/gateway"
)

var objectTags = map[string]string{"Version": "1.0", "Type": "Test"}

func putObject(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObject(ctx, fx.Bucket, KeyObject, fx.TextFile)
}

func getObject(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	dest := fx.DownloadPath(".txt")
	defer fx.RemoveFile(dest)
	return gw.GetObject(ctx, fx.Bucket, KeyObject, dest)
}

func headObject(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.HeadObject(ctx, fx.Bucket, KeyObject)
}

func copyObject(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.CopyObject(ctx, fx.Bucket, KeyObject, fx.Bucket, KeyObjectCopy)
}

func deleteObject(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteObject(ctx, fx.Bucket, KeyObject)
}

func deleteObjects(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteObjects(ctx, fx.Bucket, []string{KeyObject, KeyObjectCopy})
}

func listObjects(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	res := gw.ListObjects(ctx, fx.Bucket, "")
	if res.OK() && res.Int("count") == 0 {
		return res.Fail("No objects found in bucket %s", fx.Bucket)
	}
	return res
}

func listObjectVersions(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.ListObjectVersions(ctx, fx.Bucket)
}

func putObjectACL(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObjectACL(ctx, fx.Bucket, KeyObject, gateway.ACLPrivate)
}

func getObjectACL(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetObjectACL(ctx, fx.Bucket, KeyObject)
}

func putObjectTagging(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObjectTagging(ctx, fx.Bucket, KeyObject, objectTags)
}

func getObjectTagging(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.GetObjectTagging(ctx, fx.Bucket, KeyObject)
}

func deleteObjectTagging(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.DeleteObjectTagging(ctx, fx.Bucket, KeyObject)
}

func initiateMultipartUpload(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.InitiateMultipartUpload(ctx, fx.Bucket, KeyMultipartObj)
}

func listMultipartUploads(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.ListMultipartUploads(ctx, fx.Bucket)
}
