package suite

const (
	CreateBucket            ID = "create_bucket"
	DeleteBucket            ID = "delete_bucket"
	HeadBucket              ID = "head_bucket"
	GetBucketLocation       ID = "get_bucket_location"
	PutBucketACL            ID = "put_bucket_acl"
	GetBucketACL            ID = "get_bucket_acl"
	PutBucketTagging        ID = "put_bucket_tagging"
	GetBucketTagging        ID = "get_bucket_tagging"
	DeleteBucketTagging     ID = "delete_bucket_tagging"
	PutBucketCORS           ID = "put_bucket_cors"
	GetBucketCORS           ID = "get_bucket_cors"
	DeleteBucketCORS        ID = "delete_bucket_cors"
	PutBucketPolicy         ID = "put_bucket_policy"
	GetBucketPolicy         ID = "get_bucket_policy"
	DeleteBucketPolicy      ID = "delete_bucket_policy"
	EnableBucketVersioning  ID = "enable_bucket_versioning"
	GetBucketVersioning     ID = "get_bucket_versioning"
	SuspendBucketVersioning ID = "suspend_bucket_versioning"
	PutPublicAccessBlock    ID = "put_public_access_block"
	GetPublicAccessBlock    ID = "get_public_access_block"

	PutObject               ID = "put_object"
	GetObject               ID = "get_object"
	HeadObject              ID = "head_object"
	CopyObject              ID = "copy_object"
	DeleteObject            ID = "delete_object"
	DeleteObjects           ID = "delete_objects"
	ListObjects             ID = "list_objects"
	ListObjectVersions      ID = "list_object_versions"
	PutObjectACL            ID = "put_object_acl"
	GetObjectACL            ID = "get_object_acl"
	PutObjectTagging        ID = "put_object_tagging"
	GetObjectTagging        ID = "get_object_tagging"
	DeleteObjectTagging     ID = "delete_object_tagging"
	InitiateMultipartUpload ID = "initiate_multipart_upload"
	ListMultipartUploads    ID = "list_multipart_uploads"

	PutObject5MB                 ID = "put_object_5mb"
	GetObject5MB                 ID = "get_object_5mb"
	PutGet5MBImmediate           ID = "put_get_5mb_immediate"
	PutDelete5MBImmediate        ID = "put_delete_5mb_immediate"
	PutGet1KBImmediate           ID = "put_get_1kb_immediate"
	PutDelete1KBImmediate        ID = "put_delete_1kb_immediate"
	PutObject50MB                ID = "put_object_50mb"
	GetObject50MBMultipart       ID = "get_object_50mb_multipart"
	PutGet50MBMultipartImmediate ID = "put_get_50mb_multipart_immediate"

	PutBucketEncryption    ID = "put_bucket_encryption"
	GetBucketEncryption    ID = "get_bucket_encryption"
	DeleteBucketEncryption ID = "delete_bucket_encryption"
	PutObjectWithSSE       ID = "put_object_with_sse"
	GetObjectWithSSE       ID = "get_object_with_sse"

	PutBucketLifecycle    ID = "put_bucket_lifecycle_configuration"
	GetBucketLifecycle    ID = "get_bucket_lifecycle_configuration"
	DeleteBucketLifecycle ID = "delete_bucket_lifecycle_configuration"

	CreateBucketWithObjectLock ID = "create_bucket_with_object_lock"
	GetObjectLockConfiguration ID = "get_object_lock_configuration"
	PutObjectLockConfiguration ID = "put_object_lock_configuration"
	PutObjectRetention         ID = "put_object_retention"
	GetObjectRetention         ID = "get_object_retention"
	PutObjectLegalHold         ID = "put_object_legal_hold"
	GetObjectLegalHold         ID = "get_object_legal_hold"
)

func requires(ids ...ID) []ID { return ids }

var defaultCases = []TestCase{
	{ID: CreateBucket, Group: GroupBucket, Description: "Create the test bucket", Procedure: createBucket, CreatesBucket: true},
	{ID: DeleteBucket, Group: GroupBucket, Description: "Empty and delete the test bucket", Procedure: deleteBucket},
	{ID: HeadBucket, Group: GroupBucket, Description: "Check bucket existence", Procedure: headBucket},
	{ID: GetBucketLocation, Group: GroupBucket, Description: "Get bucket location", Procedure: getBucketLocation},
	{ID: PutBucketACL, Group: GroupBucket, Description: "Set a private bucket ACL", Procedure: putBucketACL},
	{ID: GetBucketACL, Group: GroupBucket, Description: "Get bucket ACL", Procedure: getBucketACL},
	{ID: PutBucketTagging, Group: GroupBucket, Description: "Add bucket tags", Procedure: putBucketTagging},
	{ID: GetBucketTagging, Group: GroupBucket, Description: "Get bucket tags", Procedure: getBucketTagging, Prerequisites: requires(PutBucketTagging)},
	{ID: DeleteBucketTagging, Group: GroupBucket, Description: "Delete bucket tags", Procedure: deleteBucketTagging, Prerequisites: requires(PutBucketTagging)},
	{ID: PutBucketCORS, Group: GroupBucket, Description: "Add a CORS configuration", Procedure: putBucketCORS},
	{ID: GetBucketCORS, Group: GroupBucket, Description: "Get the CORS configuration", Procedure: getBucketCORS, Prerequisites: requires(PutBucketCORS)},
	{ID: DeleteBucketCORS, Group: GroupBucket, Description: "Delete the CORS configuration", Procedure: deleteBucketCORS, Prerequisites: requires(PutBucketCORS)},
	{ID: PutBucketPolicy, Group: GroupBucket, Description: "Set a TLS-only bucket policy", Procedure: putBucketPolicy},
	{ID: GetBucketPolicy, Group: GroupBucket, Description: "Get the bucket policy", Procedure: getBucketPolicy, Prerequisites: requires(PutBucketPolicy)},
	{ID: DeleteBucketPolicy, Group: GroupBucket, Description: "Delete the bucket policy", Procedure: deleteBucketPolicy, Prerequisites: requires(PutBucketPolicy)},
	{ID: EnableBucketVersioning, Group: GroupBucket, Description: "Enable bucket versioning", Procedure: enableBucketVersioning},
	{ID: GetBucketVersioning, Group: GroupBucket, Description: "Check versioning is enabled", Procedure: getBucketVersioning, Prerequisites: requires(EnableBucketVersioning)},
	{ID: SuspendBucketVersioning, Group: GroupBucket, Description: "Suspend bucket versioning", Procedure: suspendBucketVersioning, Prerequisites: requires(EnableBucketVersioning)},
	{ID: PutPublicAccessBlock, Group: GroupBucket, Description: "Block all public access", Procedure: putPublicAccessBlock},
	{ID: GetPublicAccessBlock, Group: GroupBucket, Description: "Get the public access block", Procedure: getPublicAccessBlock, Prerequisites: requires(PutPublicAccessBlock)},

	{ID: PutObject, Group: GroupObject, Description: "Upload the text object", Procedure: putObject},
	{ID: GetObject, Group: GroupObject, Description: "Download the text object", Procedure: getObject, Prerequisites: requires(PutObject)},
	{ID: HeadObject, Group: GroupObject, Description: "Get object metadata", Procedure: headObject, Prerequisites: requires(PutObject)},
	{ID: CopyObject, Group: GroupObject, Description: "Copy the text object", Procedure: copyObject, Prerequisites: requires(PutObject)},
	{ID: DeleteObject, Group: GroupObject, Description: "Delete the text object", Procedure: deleteObject, Prerequisites: requires(PutObject)},
	{ID: DeleteObjects, Group: GroupObject, Description: "Delete the text object and its copy", Procedure: deleteObjects, Prerequisites: requires(PutObject, CopyObject)},
	{ID: ListObjects, Group: GroupObject, Description: "List objects, expecting at least one", Procedure: listObjects, Prerequisites: requires(PutObject)},
	{ID: ListObjectVersions, Group: GroupObject, Description: "List object versions", Procedure: listObjectVersions},
	{ID: PutObjectACL, Group: GroupObject, Description: "Set a private object ACL", Procedure: putObjectACL, Prerequisites: requires(PutObject)},
	{ID: GetObjectACL, Group: GroupObject, Description: "Get object ACL", Procedure: getObjectACL, Prerequisites: requires(PutObject)},
	{ID: PutObjectTagging, Group: GroupObject, Description: "Add object tags", Procedure: putObjectTagging, Prerequisites: requires(PutObject)},
	{ID: GetObjectTagging, Group: GroupObject, Description: "Get object tags", Procedure: getObjectTagging, Prerequisites: requires(PutObject, PutObjectTagging)},
	{ID: DeleteObjectTagging, Group: GroupObject, Description: "Delete object tags", Procedure: deleteObjectTagging, Prerequisites: requires(PutObject, PutObjectTagging)},
	{ID: InitiateMultipartUpload, Group: GroupObject, Description: "Initiate a multipart upload", Procedure: initiateMultipartUpload},
	{ID: ListMultipartUploads, Group: GroupObject, Description: "List multipart uploads", Procedure: listMultipartUploads, Prerequisites: requires(InitiateMultipartUpload)},

	{ID: PutObject5MB, Group: GroupLargeFile, Description: "Upload a 5MB object", Procedure: putObject5MB},
	{ID: GetObject5MB, Group: GroupLargeFile, Description: "Download the 5MB object and compare sizes", Procedure: getObject5MB, Prerequisites: requires(PutObject5MB)},
	{ID: PutGet5MBImmediate, Group: GroupLargeFile, Description: "Upload and download 5MB immediately", Procedure: putGet5MBImmediate},
	{ID: PutDelete5MBImmediate, Group: GroupLargeFile, Description: "Upload 5MB and delete immediately", Procedure: putDelete5MBImmediate},
	{ID: PutGet1KBImmediate, Group: GroupLargeFile, Description: "Upload and download 1KB immediately", Procedure: putGet1KBImmediate},
	{ID: PutDelete1KBImmediate, Group: GroupLargeFile, Description: "Upload 1KB and delete immediately", Procedure: putDelete1KBImmediate},
	{ID: PutObject50MB, Group: GroupLargeFile, Description: "Upload a 50MB object with multipart upload", Procedure: putObject50MB},
	{ID: GetObject50MBMultipart, Group: GroupLargeFile, Description: "Download the 50MB object in parts", Procedure: getObject50MBMultipart, Prerequisites: requires(PutObject50MB)},
	{ID: PutGet50MBMultipartImmediate, Group: GroupLargeFile, Description: "Upload 50MB and download it in parts immediately", Procedure: putGet50MBMultipartImmediate},

	{ID: PutBucketEncryption, Group: GroupSSE, Description: "Enable AES256 bucket encryption", Procedure: putBucketEncryption},
	{ID: GetBucketEncryption, Group: GroupSSE, Description: "Get bucket encryption", Procedure: getBucketEncryption, Prerequisites: requires(PutBucketEncryption)},
	{ID: DeleteBucketEncryption, Group: GroupSSE, Description: "Remove bucket encryption", Procedure: deleteBucketEncryption, Prerequisites: requires(PutBucketEncryption)},
	{ID: PutObjectWithSSE, Group: GroupSSE, Description: "Upload an object with SSE", Procedure: putObjectWithSSE},
	{ID: GetObjectWithSSE, Group: GroupSSE, Description: "Download the encrypted object", Procedure: getObjectWithSSE, Prerequisites: requires(PutObjectWithSSE)},

	{ID: PutBucketLifecycle, Group: GroupLifecycle, Description: "Set lifecycle rules", Procedure: putBucketLifecycle},
	{ID: GetBucketLifecycle, Group: GroupLifecycle, Description: "Get lifecycle rules", Procedure: getBucketLifecycle, Prerequisites: requires(PutBucketLifecycle)},
	{ID: DeleteBucketLifecycle, Group: GroupLifecycle, Description: "Delete lifecycle rules", Procedure: deleteBucketLifecycle, Prerequisites: requires(PutBucketLifecycle)},

	{ID: CreateBucketWithObjectLock, Group: GroupObjectLock, Description: "Create a bucket with Object Lock", Procedure: createBucketWithObjectLock, Bucket: BucketLock, CreatesBucket: true},
	{ID: GetObjectLockConfiguration, Group: GroupObjectLock, Description: "Get the Object Lock configuration", Procedure: getObjectLockConfiguration, Bucket: BucketLock, Prerequisites: requires(CreateBucketWithObjectLock)},
	{ID: PutObjectLockConfiguration, Group: GroupObjectLock, Description: "Set the default retention", Procedure: putObjectLockConfiguration, Bucket: BucketLock, Prerequisites: requires(CreateBucketWithObjectLock)},
	{ID: PutObjectRetention, Group: GroupObjectLock, Description: "Upload an object and set its retention", Procedure: putObjectRetention, Bucket: BucketLock, Prerequisites: requires(CreateBucketWithObjectLock)},
	{ID: GetObjectRetention, Group: GroupObjectLock, Description: "Get object retention", Procedure: getObjectRetention, Bucket: BucketLock, Prerequisites: requires(PutObjectRetention)},
	{ID: PutObjectLegalHold, Group: GroupObjectLock, Description: "Place a legal hold", Procedure: putObjectLegalHold, Bucket: BucketLock, Prerequisites: requires(PutObjectRetention)},
	{ID: GetObjectLegalHold, Group: GroupObjectLock, Description: "Get legal hold status", Procedure: getObjectLegalHold, Bucket: BucketLock, Prerequisites: requires(PutObjectLegalHold)},
}

// defaultOrder is the --all sequence. Tests that delete configuration or
// objects come last so the earlier tests see them.
var defaultOrder = []ID{
	CreateBucket, HeadBucket, GetBucketLocation,
	EnableBucketVersioning, GetBucketVersioning,
	PutBucketACL, GetBucketACL,
	PutBucketTagging, GetBucketTagging,
	PutBucketCORS, GetBucketCORS,
	PutBucketPolicy, GetBucketPolicy,
	PutPublicAccessBlock, GetPublicAccessBlock,

	PutObject, HeadObject, GetObject, ListObjects,
	PutObjectTagging, GetObjectTagging,
	PutObjectACL, GetObjectACL,
	CopyObject, InitiateMultipartUpload, ListMultipartUploads, ListObjectVersions,

	PutObject5MB, GetObject5MB, PutGet5MBImmediate, PutDelete5MBImmediate,
	PutGet1KBImmediate, PutDelete1KBImmediate,
	PutObject50MB, GetObject50MBMultipart, PutGet50MBMultipartImmediate,

	PutBucketEncryption, GetBucketEncryption, PutObjectWithSSE, GetObjectWithSSE, DeleteBucketEncryption,

	PutBucketLifecycle, GetBucketLifecycle, DeleteBucketLifecycle,

	CreateBucketWithObjectLock, GetObjectLockConfiguration,
	PutObjectRetention, GetObjectRetention,
	PutObjectLegalHold, GetObjectLegalHold,
	PutObjectLockConfiguration,

	DeleteBucketTagging, DeleteBucketCORS, DeleteBucketPolicy,
	DeleteObjectTagging, DeleteObject, DeleteObjects,
	SuspendBucketVersioning, DeleteBucket,
}

// ValidateDefaultCatalog builds the full S3 API catalog and reports every
// inconsistency found in it.
func ValidateDefaultCatalog() (*Catalog, error) {
	return NewCatalog(defaultCases, defaultOrder)
}

// DefaultCatalog returns the full S3 API catalog.
func DefaultCatalog() *Catalog {
	c, err := ValidateDefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}
