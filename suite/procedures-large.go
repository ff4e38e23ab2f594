package suite

import (
	"context"
	"fmt"

	"github.com/lumafield/s3-api-suite/gateway"
)

// verifySize fails res when the download at dest differs in size from the
// original file. ok builds the success message from the downloaded size.
func verifySize(fx *Fixtures, res gateway.Result, original, dest string, ok func(size int64) string) gateway.Result {
	if !res.OK() {
		return res
	}
	originalSize, err := fx.FileSize(original)
	if err != nil {
		return res.Fail("Local file error: %v", err)
	}
	downloadedSize, err := fx.FileSize(dest)
	if err != nil {
		return res.Fail("Local file error: %v", err)
	}
	res = res.With("original_size", originalSize).With("downloaded_size", downloadedSize)
	if originalSize != downloadedSize {
		return res.Fail("Size mismatch! Original: %d bytes, Downloaded: %d bytes", originalSize, downloadedSize)
	}
	return res.Pass("%s", ok(downloadedSize))
}

func mb(size int64) float64 { return float64(size) / gateway.MiB }
func kb(size int64) float64 { return float64(size) / 1024 }

func putObject5MB(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return gw.PutObject(ctx, fx.Bucket, KeyObject5MB, fx.File5MB)
}

func getObject5MB(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	dest := fx.DownloadPath(".bin")
	defer fx.RemoveFile(dest)
	res := gw.GetObject(ctx, fx.Bucket, KeyObject5MB, dest)
	return verifySize(fx, res, fx.File5MB, dest, func(size int64) string {
		return fmt.Sprintf("Downloaded 5MB object successfully (Size: %.2f MB)", mb(size))
	})
}

func putGet5MBImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return putGetImmediate(ctx, gw, fx, KeyObject5MB, fx.File5MB, func(size int64) string {
		return fmt.Sprintf("Put and Get 5MB successful! Size: %.2f MB", mb(size))
	})
}

func putDelete5MBImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return putDeleteImmediate(ctx, gw, fx, KeyObject5MB, fx.File5MB, "Put and Delete 5MB successful! Object deleted immediately after upload")
}

func putGet1KBImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return putGetImmediate(ctx, gw, fx, KeyObject1KB, fx.File1KB, func(size int64) string {
		return fmt.Sprintf("Put and Get 1KB successful! Size: %.2f KB", kb(size))
	})
}

func putDelete1KBImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	return putDeleteImmediate(ctx, gw, fx, KeyObject1KB, fx.File1KB, "Put and Delete 1KB successful! Object deleted immediately after upload")
}

func putGetImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures, key, path string, ok func(int64) string) gateway.Result {
	if res := gw.PutObject(ctx, fx.Bucket, key, path); !res.OK() {
		return res
	}
	dest := fx.DownloadPath(".bin")
	defer fx.RemoveFile(dest)
	res := gw.GetObject(ctx, fx.Bucket, key, dest)
	return verifySize(fx, res, path, dest, ok)
}

func putDeleteImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures, key, path, message string) gateway.Result {
	if res := gw.PutObject(ctx, fx.Bucket, key, path); !res.OK() {
		return res
	}
	res := gw.DeleteObject(ctx, fx.Bucket, key)
	if !res.OK() {
		return res
	}
	return res.Pass("%s", message)
}

// putObject50MB uploads the file through the multipart uploader as one
// gateway call.
func putObject50MB(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	path, err := fx.File50MB()
	if err != nil {
		return gateway.Failed("Could not create 50MB test file: %v", err)
	}
	return gw.UploadLargeObject(ctx, fx.Bucket, KeyObject50MB, path)
}

func getObject50MBMultipart(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	path, err := fx.File50MB()
	if err != nil {
		return gateway.Failed("Could not create 50MB test file: %v", err)
	}
	dest := fx.DownloadPath(".bin")
	defer fx.RemoveFile(dest)
	res := gw.GetObjectRanged(ctx, fx.Bucket, KeyObject50MB, dest)
	parts := res.Int("parts_downloaded")
	return verifySize(fx, res, path, dest, func(size int64) string {
		return fmt.Sprintf("Downloaded 50MB object in %d parts (Size: %.2f MB)", parts, mb(size))
	})
}

func putGet50MBMultipartImmediate(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result {
	path, err := fx.File50MB()
	if err != nil {
		return gateway.Failed("Could not create 50MB test file: %v", err)
	}
	if res := gw.UploadLargeObject(ctx, fx.Bucket, KeyObject50MB, path); !res.OK() {
		return res
	}
	dest := fx.DownloadPath(".bin")
	defer fx.RemoveFile(dest)
	res := gw.GetObjectRanged(ctx, fx.Bucket, KeyObject50MB, dest)
	parts := res.Int("parts_downloaded")
	return verifySize(fx, res, path, dest, func(size int64) string {
		return fmt.Sprintf("Put and Get 50MB successful! %d parts, Size: %.2f MB", parts, mb(size))
	})
}
