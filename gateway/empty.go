package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hashicorp/go-multierror"
)

// maximum number of keys accepted by a single DeleteObjects request
const deleteBatchSize = 1000

func (g *S3Gateway) EmptyBucket(ctx context.Context, bucket string) Result {
	return g.transfer(ctx, "EmptyBucket", func(ctx context.Context) (Result, error) {
		locked := g.lockEnabled(ctx, bucket)

		var result *multierror.Error
		var deleted, aborted int
		var keyMarker, versionMarker *string
		for {
			out, err := g.client.ListObjectVersions(ctx, &s3.ListObjectVersionsInput{
				Bucket:          aws.String(bucket),
				KeyMarker:       keyMarker,
				VersionIdMarker: versionMarker,
			})
			if err != nil {
				return Result{}, err
			}

			ids := make([]types.ObjectIdentifier, 0, len(out.Versions)+len(out.DeleteMarkers))
			for _, v := range out.Versions {
				if locked {
					g.releaseLegalHold(ctx, bucket, v.Key, v.VersionId)
				}
				ids = append(ids, types.ObjectIdentifier{Key: v.Key, VersionId: v.VersionId})
			}
			for _, m := range out.DeleteMarkers {
				ids = append(ids, types.ObjectIdentifier{Key: m.Key, VersionId: m.VersionId})
			}

			n, err := g.deleteBatches(ctx, bucket, ids, locked)
			deleted += n
			result = multierror.Append(result, err)

			if !aws.ToBool(out.IsTruncated) {
				break
			}
			keyMarker, versionMarker = out.NextKeyMarker, out.NextVersionIdMarker
		}

		uploads, err := g.client.ListMultipartUploads(ctx, &s3.ListMultipartUploadsInput{Bucket: aws.String(bucket)})
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			for _, u := range uploads.Uploads {
				_, err := g.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
					Bucket:   aws.String(bucket),
					Key:      u.Key,
					UploadId: u.UploadId,
				})
				if err != nil {
					result = multierror.Append(result, err)
					continue
				}
				aborted++
			}
		}

		res := Succeeded("Bucket %s emptied: %d versions deleted, %d uploads aborted", bucket, deleted, aborted).
			With("deleted", deleted).
			With("aborted", aborted)
		return res, result.ErrorOrNil()
	})
}

func (g *S3Gateway) deleteBatches(ctx context.Context, bucket string, ids []types.ObjectIdentifier, bypass bool) (int, error) {
	var result *multierror.Error
	deleted := 0
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		in := &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: ids[start:end], Quiet: aws.Bool(false)},
		}
		if bypass {
			in.BypassGovernanceRetention = aws.Bool(true)
		}
		out, err := g.client.DeleteObjects(ctx, in)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		deleted += len(out.Deleted)
		for _, e := range out.Errors {
			result = multierror.Append(result, fmt.Errorf("%s (%s): %s: %s",
				aws.ToString(e.Key), aws.ToString(e.VersionId), aws.ToString(e.Code), aws.ToString(e.Message)))
		}
	}
	return deleted, result.ErrorOrNil()
}

func (g *S3Gateway) lockEnabled(ctx context.Context, bucket string) bool {
	out, err := g.client.GetObjectLockConfiguration(ctx, &s3.GetObjectLockConfigurationInput{Bucket: aws.String(bucket)})
	if err != nil || out.ObjectLockConfiguration == nil {
		return false
	}
	return out.ObjectLockConfiguration.ObjectLockEnabled == types.ObjectLockEnabledEnabled
}

// releaseLegalHold is best effort; versions without a hold reject the call on some providers.
func (g *S3Gateway) releaseLegalHold(ctx context.Context, bucket string, key, versionID *string) {
	_, err := g.client.PutObjectLegalHold(ctx, &s3.PutObjectLegalHoldInput{
		Bucket:    aws.String(bucket),
		Key:       key,
		VersionId: versionID,
		LegalHold: &types.ObjectLockLegalHold{Status: types.ObjectLockLegalHoldStatusOff},
	})
	if err != nil {
		g.logger.WithField("bucket", bucket).WithField("key", aws.ToString(key)).WithError(err).Debug("releasing legal hold failed")
	}
}
