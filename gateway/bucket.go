package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// us-east-1 rejects an explicit location constraint
func (g *S3Gateway) bucketConfiguration() *types.CreateBucketConfiguration {
	if g.region == "" || g.region == "us-east-1" {
		return nil
	}
	return &types.CreateBucketConfiguration{
		LocationConstraint: types.BucketLocationConstraint(g.region),
	}
}

func (g *S3Gateway) CreateBucket(ctx context.Context, bucket string) Result {
	return g.call(ctx, "CreateBucket", func(ctx context.Context) (Result, error) {
		_, err := g.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket:                    aws.String(bucket),
			CreateBucketConfiguration: g.bucketConfiguration(),
		})
		return Succeeded("Bucket %s created successfully", bucket), err
	})
}

func (g *S3Gateway) CreateBucketWithObjectLock(ctx context.Context, bucket string) Result {
	return g.call(ctx, "CreateBucket", func(ctx context.Context) (Result, error) {
		_, err := g.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket:                     aws.String(bucket),
			CreateBucketConfiguration:  g.bucketConfiguration(),
			ObjectLockEnabledForBucket: aws.Bool(true),
		})
		return Succeeded("Bucket %s created with Object Lock enabled", bucket), err
	})
}

func (g *S3Gateway) DeleteBucket(ctx context.Context, bucket string) Result {
	return g.call(ctx, "DeleteBucket", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)})
		return Succeeded("Bucket %s deleted successfully", bucket), err
	})
}

func (g *S3Gateway) HeadBucket(ctx context.Context, bucket string) Result {
	return g.call(ctx, "HeadBucket", func(ctx context.Context) (Result, error) {
		_, err := g.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
		return Succeeded("Bucket %s exists and is accessible", bucket), err
	})
}

func (g *S3Gateway) GetBucketLocation(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketLocation", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		// an empty constraint is how S3 reports us-east-1
		location := string(out.LocationConstraint)
		if location == "" {
			location = "us-east-1"
		}
		return Succeeded("Bucket location: %s", location).With("location", location), nil
	})
}

func (g *S3Gateway) PutBucketACL(ctx context.Context, bucket, acl string) Result {
	return g.call(ctx, "PutBucketAcl", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutBucketAcl(ctx, &s3.PutBucketAclInput{
			Bucket: aws.String(bucket),
			ACL:    types.BucketCannedACL(acl),
		})
		return Succeeded("Bucket ACL set to %s", acl), err
	})
}

func (g *S3Gateway) GetBucketACL(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketAcl", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketAcl(ctx, &s3.GetBucketAclInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		owner := "Unknown"
		if out.Owner != nil && aws.ToString(out.Owner.DisplayName) != "" {
			owner = aws.ToString(out.Owner.DisplayName)
		}
		return Succeeded("Bucket has %d grants", len(out.Grants)).
			With("grants_count", len(out.Grants)).
			With("owner", owner), nil
	})
}

func (g *S3Gateway) PutBucketTagging(ctx context.Context, bucket string, tags map[string]string) Result {
	return g.call(ctx, "PutBucketTagging", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
			Bucket:  aws.String(bucket),
			Tagging: &types.Tagging{TagSet: tagSet(tags)},
		})
		return Succeeded("Tags added to bucket %s", bucket), err
	})
}

func (g *S3Gateway) GetBucketTagging(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketTagging", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		tags := tagMap(out.TagSet)
		return Succeeded("Retrieved %d tags", len(tags)).With("tags", tags), nil
	})
}

func (g *S3Gateway) DeleteBucketTagging(ctx context.Context, bucket string) Result {
	return g.call(ctx, "DeleteBucketTagging", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteBucketTagging(ctx, &s3.DeleteBucketTaggingInput{Bucket: aws.String(bucket)})
		return Succeeded("Tags deleted from bucket %s", bucket), err
	})
}

func (g *S3Gateway) PutBucketCORS(ctx context.Context, bucket string, rules []CORSRule) Result {
	return g.call(ctx, "PutBucketCors", func(ctx context.Context) (Result, error) {
		corsRules := make([]types.CORSRule, 0, len(rules))
		for _, r := range rules {
			corsRules = append(corsRules, types.CORSRule{
				AllowedMethods: r.AllowedMethods,
				AllowedOrigins: r.AllowedOrigins,
				AllowedHeaders: r.AllowedHeaders,
			})
		}
		_, err := g.client.PutBucketCors(ctx, &s3.PutBucketCorsInput{
			Bucket:            aws.String(bucket),
			CORSConfiguration: &types.CORSConfiguration{CORSRules: corsRules},
		})
		return Succeeded("CORS rules added to bucket %s", bucket), err
	})
}

func (g *S3Gateway) GetBucketCORS(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketCors", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketCors(ctx, &s3.GetBucketCorsInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Found %d CORS rules", len(out.CORSRules)).With("rules_count", len(out.CORSRules)), nil
	})
}

func (g *S3Gateway) DeleteBucketCORS(ctx context.Context, bucket string) Result {
	return g.call(ctx, "DeleteBucketCors", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteBucketCors(ctx, &s3.DeleteBucketCorsInput{Bucket: aws.String(bucket)})
		return Succeeded("CORS configuration deleted from %s", bucket), err
	})
}

// DefaultBucketPolicy denies any request to bucket that isn't made over TLS.
// It grants nothing, so it is accepted even when public access is blocked.
func DefaultBucketPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{{
			"Sid":       "DenyInsecureTransport",
			"Effect":    "Deny",
			"Principal": "*",
			"Action":    "s3:*",
			"Resource": []string{
				fmt.Sprintf("arn:aws:s3:::%s", bucket),
				fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
			"Condition": map[string]interface{}{
				"Bool": map[string]string{"aws:SecureTransport": "false"},
			},
		}},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}

// PutBucketPolicy applies policy, or DefaultBucketPolicy when policy is empty.
func (g *S3Gateway) PutBucketPolicy(ctx context.Context, bucket, policy string) Result {
	if policy == "" {
		policy = DefaultBucketPolicy(bucket)
	}
	return g.call(ctx, "PutBucketPolicy", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(bucket),
			Policy: aws.String(policy),
		})
		return Succeeded("Bucket policy applied to %s", bucket), err
	})
}

func (g *S3Gateway) GetBucketPolicy(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketPolicy", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		return Succeeded("Bucket policy retrieved for %s", bucket).With("policy", aws.ToString(out.Policy)), nil
	})
}

func (g *S3Gateway) DeleteBucketPolicy(ctx context.Context, bucket string) Result {
	return g.call(ctx, "DeleteBucketPolicy", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteBucketPolicy(ctx, &s3.DeleteBucketPolicyInput{Bucket: aws.String(bucket)})
		return Succeeded("Bucket policy deleted from %s", bucket), err
	})
}

func (g *S3Gateway) putVersioning(ctx context.Context, bucket string, status types.BucketVersioningStatus, message string) Result {
	return g.call(ctx, "PutBucketVersioning", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
			Bucket:                  aws.String(bucket),
			VersioningConfiguration: &types.VersioningConfiguration{Status: status},
		})
		return Succeeded(message, bucket), err
	})
}

func (g *S3Gateway) EnableBucketVersioning(ctx context.Context, bucket string) Result {
	return g.putVersioning(ctx, bucket, types.BucketVersioningStatusEnabled, "Versioning enabled for bucket %s")
}

func (g *S3Gateway) SuspendBucketVersioning(ctx context.Context, bucket string) Result {
	return g.putVersioning(ctx, bucket, types.BucketVersioningStatusSuspended, "Versioning suspended for bucket %s")
}

func (g *S3Gateway) GetBucketVersioning(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketVersioning", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		status := string(out.Status)
		if status == "" {
			status = "Not Set"
		}
		return Succeeded("Bucket versioning status: %s", status).With("versioning_status", status), nil
	})
}

func (g *S3Gateway) PutPublicAccessBlock(ctx context.Context, bucket string, blockAll bool) Result {
	return g.call(ctx, "PutPublicAccessBlock", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
			Bucket: aws.String(bucket),
			PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
				BlockPublicAcls:       aws.Bool(blockAll),
				IgnorePublicAcls:      aws.Bool(blockAll),
				BlockPublicPolicy:     aws.Bool(blockAll),
				RestrictPublicBuckets: aws.Bool(blockAll),
			},
		})
		return Succeeded("Public access block applied to %s", bucket), err
	})
}

func (g *S3Gateway) GetPublicAccessBlock(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetPublicAccessBlock", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		res := Succeeded("Public access block configuration retrieved")
		if c := out.PublicAccessBlockConfiguration; c != nil {
			res = res.With("block_public_acls", aws.ToBool(c.BlockPublicAcls)).
				With("ignore_public_acls", aws.ToBool(c.IgnorePublicAcls)).
				With("block_public_policy", aws.ToBool(c.BlockPublicPolicy)).
				With("restrict_public_buckets", aws.ToBool(c.RestrictPublicBuckets))
		}
		return res, nil
	})
}

func (g *S3Gateway) PutBucketEncryption(ctx context.Context, bucket, algorithm string) Result {
	if algorithm != SSEAlgorithmKMS {
		algorithm = SSEAlgorithmAES256
	}
	return g.call(ctx, "PutBucketEncryption", func(ctx context.Context) (Result, error) {
		_, err := g.client.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
			Bucket: aws.String(bucket),
			ServerSideEncryptionConfiguration: &types.ServerSideEncryptionConfiguration{
				Rules: []types.ServerSideEncryptionRule{{
					ApplyServerSideEncryptionByDefault: &types.ServerSideEncryptionByDefault{
						SSEAlgorithm: types.ServerSideEncryption(algorithm),
					},
				}},
			},
		})
		return Succeeded("Bucket encryption enabled with %s", algorithm), err
	})
}

func (g *S3Gateway) GetBucketEncryption(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketEncryption", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		algorithm := "None"
		if c := out.ServerSideEncryptionConfiguration; c != nil && len(c.Rules) > 0 && c.Rules[0].ApplyServerSideEncryptionByDefault != nil {
			algorithm = string(c.Rules[0].ApplyServerSideEncryptionByDefault.SSEAlgorithm)
		}
		return Succeeded("Bucket encryption: %s", algorithm).With("sse_algorithm", algorithm), nil
	})
}

func (g *S3Gateway) DeleteBucketEncryption(ctx context.Context, bucket string) Result {
	return g.call(ctx, "DeleteBucketEncryption", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteBucketEncryption(ctx, &s3.DeleteBucketEncryptionInput{Bucket: aws.String(bucket)})
		return Succeeded("Bucket encryption removed"), err
	})
}

// PutBucketLifecycle applies rules, or DefaultLifecycleRules when rules is empty.
func (g *S3Gateway) PutBucketLifecycle(ctx context.Context, bucket string, rules []LifecycleRule) Result {
	if len(rules) == 0 {
		rules = DefaultLifecycleRules()
	}
	return g.call(ctx, "PutBucketLifecycleConfiguration", func(ctx context.Context) (Result, error) {
		lifecycleRules := make([]types.LifecycleRule, 0, len(rules))
		for _, r := range rules {
			status := types.ExpirationStatusEnabled
			if r.Disabled {
				status = types.ExpirationStatusDisabled
			}
			rule := types.LifecycleRule{
				ID:     aws.String(r.ID),
				Status: status,
				Filter: &types.LifecycleRuleFilter{Prefix: aws.String(r.Prefix)},
			}
			if r.ExpirationDays > 0 {
				rule.Expiration = &types.LifecycleExpiration{Days: aws.Int32(r.ExpirationDays)}
			}
			if r.NoncurrentDays > 0 {
				rule.NoncurrentVersionExpiration = &types.NoncurrentVersionExpiration{NoncurrentDays: aws.Int32(r.NoncurrentDays)}
			}
			lifecycleRules = append(lifecycleRules, rule)
		}
		_, err := g.client.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
			Bucket:                 aws.String(bucket),
			LifecycleConfiguration: &types.BucketLifecycleConfiguration{Rules: lifecycleRules},
		})
		return Succeeded("Lifecycle rules configured for %s", bucket), err
	})
}

func (g *S3Gateway) GetBucketLifecycle(ctx context.Context, bucket string) Result {
	return g.call(ctx, "GetBucketLifecycleConfiguration", func(ctx context.Context) (Result, error) {
		out, err := g.client.GetBucketLifecycleConfiguration(ctx, &s3.GetBucketLifecycleConfigurationInput{Bucket: aws.String(bucket)})
		if err != nil {
			return Result{}, err
		}
		ids := make([]string, 0, len(out.Rules))
		for _, r := range out.Rules {
			ids = append(ids, fmt.Sprintf("%s (%s)", aws.ToString(r.ID), r.Status))
		}
		return Succeeded("Found %d lifecycle rules", len(out.Rules)).
			With("rules_count", len(out.Rules)).
			With("rules", ids), nil
	})
}

func (g *S3Gateway) DeleteBucketLifecycle(ctx context.Context, bucket string) Result {
	return g.call(ctx, "DeleteBucketLifecycle", func(ctx context.Context) (Result, error) {
		_, err := g.client.DeleteBucketLifecycle(ctx, &s3.DeleteBucketLifecycleInput{Bucket: aws.String(bucket)})
		return Succeeded("Lifecycle configuration deleted"), err
	})
}

func tagSet(tags map[string]string) []types.Tag {
	set := make([]types.Tag, 0, len(tags))
	for k, v := range tags {
		set = append(set, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return set
}

func tagMap(set []types.Tag) map[string]string {
	tags := make(map[string]string, len(set))
	for _, t := range set {
		tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return tags
}
