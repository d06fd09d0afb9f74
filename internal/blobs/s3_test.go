package blobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func testStore() *S3Store {
	return NewS3Store(Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "opvault",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
}

func stubPresignClient(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		require.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestPresignPut(t *testing.T) {
	stubPresignClient(t)
	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	var gotBucket, gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket = *in.Bucket
		gotKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://signed/put"}, nil
	}

	key, url, err := testStore().PresignPut(context.Background())
	require.NoError(t, err)
	require.Equal(t, "http://signed/put", url)
	require.Equal(t, gotKey, key)
	require.Equal(t, "opvault", gotBucket)
	require.True(t, strings.HasPrefix(key, "items/"))
}

func TestPresignGet(t *testing.T) {
	stubPresignClient(t)
	origGet := presignGetObject
	t.Cleanup(func() { presignGetObject = origGet })

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		require.Equal(t, "items/x/y", *in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://signed/get"}, nil
	}

	url, err := testStore().PresignGet(context.Background(), "items/x/y")
	require.NoError(t, err)
	require.Equal(t, "http://signed/get", url)
}

func TestPresignPut_PropagatesError(t *testing.T) {
	stubPresignClient(t)
	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign failed")
	}

	_, _, err := testStore().PresignPut(context.Background())
	require.Error(t, err)
}

func TestRandomStorageKey_Unique(t *testing.T) {
	a := RandomStorageKey()
	b := RandomStorageKey()
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "items/"))
}
