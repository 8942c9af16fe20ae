package sthree

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/oneconcern/dirmanifest/internal/rand"
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEndpointEnv points to an S3-compatible endpoint (e.g. a local minio) to run integration tests
const testEndpointEnv = "DIRMANIFEST_TEST_S3_ENDPOINT"

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(Bucket(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}

func TestStore(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	has, err := bs.Has(ctx, "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "fifteentons")
	require.NoError(t, err)
	require.False(t, has)

	b, err := storage.ReadAll(ctx, bs, "sixteentons")
	require.NoError(t, err)
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(ctx, "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))

	err = bs.Put(ctx, "sixteentons", bytes.NewBufferString("other"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	keys, err := bs.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sixteentons", "seventeentons"}, keys)

	require.NoError(t, bs.Delete(ctx, "seventeentons"))
	require.NoError(t, bs.Clear(ctx))
	keys, err = bs.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func setupStore(t testing.TB) storage.Store {
	t.Helper()

	endpoint := os.Getenv(testEndpointEnv)
	if endpoint == "" {
		t.Skipf("%s is not set: skipping S3 integration test", testEndpointEnv)
	}

	bucket := aws.String(rand.LetterString(15))
	minioConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials("access-key", "secret-key-thing", ""),
		Region:           aws.String("us-west-2"),
		Endpoint:         aws.String(endpoint),
		S3ForcePathStyle: aws.Bool(true),
	}
	sess, err := session.NewSession(minioConfig)
	require.NoError(t, err)

	cl := s3.New(sess)
	_, err = cl.CreateBucket(&s3.CreateBucketInput{
		Bucket: bucket,
		CreateBucketConfiguration: &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String("us-west-2"),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = cl.DeleteBucket(&s3.DeleteBucketInput{Bucket: bucket})
	})

	bs, err := New(Bucket(*bucket), AWSConfig(minioConfig), Prefix("objects/"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bs.Put(ctx, "sixteentons", bytes.NewBufferString("this is the text"), storage.OverWrite))
	require.NoError(t, bs.Put(ctx, "seventeentons", bytes.NewBufferString("this is the text for another thing"), storage.OverWrite))
	return bs
}
