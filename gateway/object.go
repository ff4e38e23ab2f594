package gateway

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

func (g *S3Gateway) open(path string) (afero.File, int64, error) {
	f, err := g.fs.Open(path)
	if err != nil {
		return nil, 0, &fileError{path: path, err: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, &fileError{path: path, err: err}
	}
	return f, info.Size(), nil
}

func (g *S3Gateway) create(path string) (afero.File, error) {
	f, err := g.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, &fileError{path: path, err: err}
	}
	return f, nil
}

func (g *S3Gateway) putObject(ctx context.Context, bucket, key, path string, sse types.ServerSideEncryption) (int64, error) {
	f, size, err := g.open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(bucket),
		Key:                  aws.String(key),
		Body:                 f,
		ContentLength:        aws.Int64(size),
		ServerSideEncryption: sse,
	})
	return size, err
}

func (g *S3Gateway) PutObject(ctx context.Context, bucket, key, path string) Result {
	return g.call(ctx, "PutObject", func(ctx context.Context) (Result, error) {
		size, err := g.putObject(ctx, bucket, key, path, "")
		return Succeeded("Object %s uploaded successfully", key).With("size", size), err
	})
}

func (g *S3Gateway) PutObjectWithSSE(ctx context.Context, bucket, key, path, algorithm string) Result {
	if algorithm != SSEAlgorithmKMS {
		algorithm = SSEAlgorithmAES256
	}
	return g.call(ctx, "PutObject", func(ctx context.Context) (Result, error) {
		size, err := g.putObject(ctx, bucket, key, path, types.ServerSideEncryption(algorithm))
		return Succeeded("Object %s uploaded with %s encryption", key, algorithm).With("size", size), err
	})
}

// UploadLargeObject uploads path with the multipart uploader. Files smaller
// than one part go up in a single PutObject.
func (g *S3Gateway) UploadLargeObject(ctx context.Context, bucket, key, path string) Result {
	return g.transfer(ctx, "Upload", func(ctx context.Context) (Result, error) {
		f, size, err := g.open(path)
		if err != nil {
			return Result{}, err
		}
		defer f.Close()

		_, err = g.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		return Succeeded("Object %s (%s) uploaded successfully", key, humanize.IBytes(uint64(size))).
			With("size", size).
			With("parts", parts(size, g.partSize)), err
	})
}

// GetObject downloads key into dest. An empty dest discards the body.
func (g *S3Gateway) GetObject(ctx context.Context, bucket, key, dest string) Result {
	return g.call(ctx, "GetObject", func(ctx context.Context) (Result, error) {
		out, written, err := g.getObject(ctx, bucket, key, dest)
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Object %s downloaded successfully", key).
			With("size", aws.ToInt64(out.ContentLength)).
			With("written", written), nil
	})
}

func (g *S3Gateway) GetObjectWithSSE(ctx context.Context, bucket, key, dest string) Result {
	return g.call(ctx, "GetObject", func(ctx context.Context) (Result, error) {
		out, written, err := g.getObject(ctx, bucket, key, dest)
		if err != nil {
			return Result{}, err
		}
		algorithm := string(out.ServerSideEncryption)
		if algorithm == "" {
			algorithm = "None"
		}
		return Succeeded("Object downloaded with %s encryption", algorithm).
			With("encryption", algorithm).
			With("size", aws.ToInt64(out.ContentLength)).
			With("written", written), nil
	})
}

func (g *S3Gateway) getObject(ctx context.Context, bucket, key, dest string) (*s3.GetObjectOutput, int64, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, err
	}
	defer out.Body.Close()

	var w io.Writer = io.Discard
	if dest != "" {
		f, err := g.create(dest)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		w = f
	}

	written, err := io.Copy(w, out.Body)
	if err != nil {
		return nil, written, fmt.Errorf("reading body of %s: %w", key, err)
	}
	return out, written, nil
}

// GetObjectRanged downloads key with ranged GETs of the configured part size.
func (g *S3Gateway) GetObjectRanged(ctx context.Context, bucket, key, dest string) Result {
	return g.transfer(ctx, "Download", func(ctx context.Context) (Result, error) {
		var w io.WriterAt
		if dest != "" {
			f, err := g.create(dest)
			if err != nil {
				return Result{}, err
			}
			defer f.Close()
			w = f
		} else {
			w = manager.NewWriteAtBuffer(nil)
		}

		n, err := g.downloader.Download(ctx, w, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return Result{}, err
		}
		count := parts(n, g.partSize)
		return Succeeded("Downloaded %s object in %d parts (%.2f MB total)", key, count, float64(n)/MiB).
			With("total_size", n).
			With("size", n).
			With("parts_downloaded", count).
			With("part_size_mb", g.partSize/MiB), nil
	})
}

func parts(size, partSize int64) int64 {
	if size <= 0 || partSize <= 0 {
		return 0
	}
	return (size + partSize - 1) / partSize
}

func (g *S3Gateway) HeadObject(ctx context.Context, bucket, key string) Result {
	return g.call(ctx, "HeadObject", func(ctx context.Context) (Result, error) {
		out, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return Result{}, err
		}
		size := aws.ToInt64(out.ContentLength)
		contentType := aws.ToString(out.ContentType)
		if contentType == "" {
			contentType = "N/A"
		}
		res := Succeeded("Object %s: %s, %s", key, humanize.IBytes(uint64(size)), contentType).
			With("size", size).
			With("content_type", contentType)
		if out.LastModified != nil {
			res = res.With("last_modified", out.LastModified.UTC().Format(time.RFC3339))
		}
		return res, nil
	})
}

func (g *S3Gateway) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) Result {
	return g.call(ctx, "CopyObject", func(ctx context.Context) (Result, error) {
		_, err := g.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(dstBucket),
			Key:        aws.String(dstKey),
			CopySource: aws.String(srcBucket + "/" + url.PathEscape(srcKey)),
		})
		return Succeeded("Object copied to %s/%s", dstBucket, dstKey), err
	})
}

func (g *S3Gateway) DeleteObject(ctx context.Context, bucket, key string) Result {
	return g.call(ctx, "DeleteObject", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		return Succeeded("Object %s deleted successfully", key), err
	})
}

func (g *S3Gateway) DeleteObjects(ctx context.Context, bucket string, keys []string) Result {
	return g.call(ctx, "DeleteObjects", func(ctx context.Context) (Result, error) {
		ids := make([]types.ObjectIdentifier, 0, len(keys))
		for _, k := range keys {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}
		out, err := g.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: ids},
		})
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Deleted %d objects with %d errors", len(out.Deleted), len(out.Errors)).
			With("deleted", len(out.Deleted)).
			With("errors", len(out.Errors)), nil
	})
}

func (g *S3Gateway) ListObjects(ctx context.Context, bucket, prefix string) Result {
	return g.call(ctx, "ListObjectsV2", func(ctx context.Context) (Result, error) {
		in := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
		if prefix != "" {
			in.Prefix = aws.String(prefix)
		}
		out, err := g.client.ListObjectsV2(ctx, in)
		if err != nil {
			return Result{}, err
		}
		keys := make([]string, 0, len(out.Contents))
		for _, o := range out.Contents {
			keys = append(keys, aws.ToString(o.Key))
		}
		return Succeeded("Found %d objects", len(keys)).
			With("count", len(keys)).
			With("keys", keys), nil
	})
}

func (g *S3Gateway) ListObjectVersions(ctx context.Context, bucket string) Result {
	return g.call(ctx, "ListObjectVersions", func(ctx context.Context) (Result, error) {
		out, err := g.client.ListObjectVersions(ctx, &s3.ListObjectVersionsInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Found %d object versions", len(out.Versions)).
			With("versions_count", len(out.Versions)).
			With("delete_markers_count", len(out.DeleteMarkers)), nil
	})
}

func (g *S3Gateway) PutObjectACL(ctx context.Context, bucket, key, acl string) Result {
	return g.call(ctx, "PutObjectAcl", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			ACL:    types.ObjectCannedACL(acl),
		})
		return Succeeded("Object ACL set to %s", acl), err
	})
}

func (g *S3Gateway) GetObjectACL(ctx context.Context, bucket, key string) Result {
	return g.call(ctx, "GetObjectAcl", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetObjectAcl(ctx, &s3.GetObjectAclInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Object has %d grants", len(out.Grants)).With("grants_count", len(out.Grants)), nil
	})
}

func (g *S3Gateway) PutObjectTagging(ctx context.Context, bucket, key string, tags map[string]string) Result {
	return g.call(ctx, "PutObjectTagging", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
			Bucket:  aws.String(bucket),
			Key:     aws.String(key),
			Tagging: &types.Tagging{TagSet: tagSet(tags)},
		})
		return Succeeded("Tags added to object %s", key), err
	})
}

func (g *S3Gateway) GetObjectTagging(ctx context.Context, bucket, key string) Result {
	return g.call(ctx, "GetObjectTagging", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return Result{}, err
		}
		tags := tagMap(out.TagSet)
		return Succeeded("Retrieved %d tags", len(tags)).With("tags", tags), nil
	})
}

func (g *S3Gateway) DeleteObjectTagging(ctx context.Context, bucket, key string) Result {
	return g.call(ctx, "DeleteObjectTagging", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteObjectTagging(ctx, &s3.DeleteObjectTaggingInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		return Succeeded("Tags deleted from object %s", key), err
	})
}

func (g *S3Gateway) InitiateMultipartUpload(ctx context.Context, bucket, key string) Result {
	return g.call(ctx, "CreateMultipartUpload", func(ctx context.Context) (Result, error) {
		out, err := g.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return Result{}, err
		}
		id := aws.ToString(out.UploadId)
		return Succeeded("Multipart upload initiated with ID: %s", id).With("upload_id", id), nil
	})
}

func (g *S3Gateway) ListMultipartUploads(ctx context.Context, bucket string) Result {
	return g.call(ctx, "ListMultipartUploads", func(ctx context.Context) (Result, error) {
		out, err := g.client.ListMultipartUploads(ctx, &s3.ListMultipartUploadsInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Found %d ongoing multipart uploads", len(out.Uploads)).
			With("uploads_count", len(out.Uploads)), nil
	})
}
