package blob

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "carsapi/internal/server/config"
)

func newS3StoreForTest() *S3Store {
	return NewS3Store(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "carsapi",
	})
}

func stubClient(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
			t.Fatalf("BaseEndpoint not applied")
		}
		return &s3.Client{}
	}
}

func TestS3Store_Upload(t *testing.T) {
	stubClient(t)

	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	var gotBucket, gotKey string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotBucket = *in.Bucket
		gotKey = *in.Key
		return &s3.PutObjectOutput{}, nil
	}

	store := newS3StoreForTest()
	key, err := store.Upload(context.Background(), File{
		Name:   "photo.jpg",
		Size:   5,
		Reader: strings.NewReader("hello"),
	}, "cars")
	if err != nil {
		t.Fatalf("Upload err: %v", err)
	}

	if gotBucket != "carsapi" {
		t.Fatalf("bucket mismatch: %q", gotBucket)
	}
	if key != gotKey || !strings.HasPrefix(key, "cars/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key: %q", key)
	}
}

func TestS3Store_Upload_PutError(t *testing.T) {
	stubClient(t)

	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("put-fail")
	}

	store := newS3StoreForTest()
	_, err := store.Upload(context.Background(), File{
		Name:   "photo.jpg",
		Size:   5,
		Reader: strings.NewReader("hello"),
	}, "cars")
	if err == nil || !strings.Contains(err.Error(), "put-fail") {
		t.Fatalf("expected put-fail, got %v", err)
	}
}

func TestS3Store_Delete(t *testing.T) {
	stubClient(t)

	origDel := deleteObject
	t.Cleanup(func() { deleteObject = origDel })

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		if *in.Key != "cars/a.jpg" {
			t.Fatalf("key mismatch: %q", *in.Key)
		}
		return &s3.DeleteObjectOutput{}, nil
	}

	store := newS3StoreForTest()
	if !store.Delete(context.Background(), "cars/a.jpg") {
		t.Fatalf("expected delete to succeed")
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("delete-fail")
	}
	if store.Delete(context.Background(), "cars/a.jpg") {
		t.Fatalf("expected delete to fail")
	}
}

func TestS3Store_PublicURL(t *testing.T) {
	stubClient(t)

	origPre := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		newS3PresignClient = origPre
		presignGetObject = origGet
	})

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + *in.Key}, nil
	}

	store := newS3StoreForTest()
	if got := store.PublicURL("cars/a.jpg"); got != "http://signed/cars/a.jpg" {
		t.Fatalf("unexpected url: %q", got)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}
	if got := store.PublicURL("cars/a.jpg"); got != "cars/a.jpg" {
		t.Fatalf("expected fallback to key, got %q", got)
	}
}
