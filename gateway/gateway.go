// Package gateway wraps the S3 API behind one method per remote operation.
// Every method returns a Result; SDK errors are converted at this boundary.
package gateway

import "context"

// MiB is one mebibyte.
const MiB = 1024 * 1024

const (
	SSEAlgorithmAES256 = "AES256"
	SSEAlgorithmKMS    = "aws:kms"

	LockModeGovernance = "GOVERNANCE"
	LockModeCompliance = "COMPLIANCE"

	ACLPrivate = "private"
)

// CORSRule is a single cross-origin rule.
type CORSRule struct {
	AllowedMethods []string
	AllowedOrigins []string
	AllowedHeaders []string
}

// LifecycleRule expires current and noncurrent object versions.
type LifecycleRule struct {
	ID             string
	Prefix         string
	ExpirationDays int32
	NoncurrentDays int32
	Disabled       bool
}

// DefaultLifecycleRules expire current and old versions after one day.
func DefaultLifecycleRules() []LifecycleRule {
	return []LifecycleRule{{
		ID:             "ExpireCurrentAndOld1Day",
		ExpirationDays: 1,
		NoncurrentDays: 1,
	}}
}

// Gateway is the set of remote operations the suite exercises.
type Gateway interface {
	CreateBucket(ctx context.Context, bucket string) Result
	CreateBucketWithObjectLock(ctx context.Context, bucket string) Result
	DeleteBucket(ctx context.Context, bucket string) Result
	HeadBucket(ctx context.Context, bucket string) Result
	GetBucketLocation(ctx context.Context, bucket string) Result

	PutBucketACL(ctx context.Context, bucket, acl string) Result
	GetBucketACL(ctx context.Context, bucket string) Result
	PutBucketTagging(ctx context.Context, bucket string, tags map[string]string) Result
	GetBucketTagging(ctx context.Context, bucket string) Result
	DeleteBucketTagging(ctx context.Context, bucket string) Result
	PutBucketCORS(ctx context.Context, bucket string, rules []CORSRule) Result
	GetBucketCORS(ctx context.Context, bucket string) Result
	DeleteBucketCORS(ctx context.Context, bucket string) Result
	PutBucketPolicy(ctx context.Context, bucket, policy string) Result
	GetBucketPolicy(ctx context.Context, bucket string) Result
	DeleteBucketPolicy(ctx context.Context, bucket string) Result
	EnableBucketVersioning(ctx context.Context, bucket string) Result
	GetBucketVersioning(ctx context.Context, bucket string) Result
	SuspendBucketVersioning(ctx context.Context, bucket string) Result
	PutPublicAccessBlock(ctx context.Context, bucket string, blockAll bool) Result
	GetPublicAccessBlock(ctx context.Context, bucket string) Result
	PutBucketEncryption(ctx context.Context, bucket, algorithm string) Result
	GetBucketEncryption(ctx context.Context, bucket string) Result
	DeleteBucketEncryption(ctx context.Context, bucket string) Result
	PutBucketLifecycle(ctx context.Context, bucket string, rules []LifecycleRule) Result
	GetBucketLifecycle(ctx context.Context, bucket string) Result
	DeleteBucketLifecycle(ctx context.Context, bucket string) Result
	GetObjectLockConfiguration(ctx context.Context, bucket string) Result
	PutObjectLockConfiguration(ctx context.Context, bucket, mode string, days int32) Result

	PutObject(ctx context.Context, bucket, key, path string) Result
	PutObjectWithSSE(ctx context.Context, bucket, key, path, algorithm string) Result
	UploadLargeObject(ctx context.Context, bucket, key, path string) Result
	GetObject(ctx context.Context, bucket, key, dest string) Result
	GetObjectWithSSE(ctx context.Context, bucket, key, dest string) Result
	GetObjectRanged(ctx context.Context, bucket, key, dest string) Result
	HeadObject(ctx context.Context, bucket, key string) Result
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) Result
	DeleteObject(ctx context.Context, bucket, key string) Result
	DeleteObjects(ctx context.Context, bucket string, keys []string) Result
	ListObjects(ctx context.Context, bucket, prefix string) Result
	ListObjectVersions(ctx context.Context, bucket string) Result
	PutObjectACL(ctx context.Context, bucket, key, acl string) Result
	GetObjectACL(ctx context.Context, bucket, key string) Result
	PutObjectTagging(ctx context.Context, bucket, key string, tags map[string]string) Result
	GetObjectTagging(ctx context.Context, bucket, key string) Result
	DeleteObjectTagging(ctx context.Context, bucket, key string) Result
	InitiateMultipartUpload(ctx context.Context, bucket, key string) Result
	ListMultipartUploads(ctx context.Context, bucket string) Result
	PutObjectRetention(ctx context.Context, bucket, key, mode string, days int) Result
	GetObjectRetention(ctx context.Context, bucket, key string) Result
	PutObjectLegalHold(ctx context.Context, bucket, key string, on bool) Result
	GetObjectLegalHold(ctx context.Context, bucket, key string) Result

	// EmptyBucket is a composite: it deletes every object version, delete
	// marker and pending multipart upload, releasing locks where it can.
	EmptyBucket(ctx context.Context, bucket string) Result
}
