package kss

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFilesystem(t *testing.T) {
	ctx := context.Background()
	driver, err := New(ctx, Configuration{
		DriverType:         DriverTypeLocal,
		LocalConfiguration: &LocalConfiguration{BasePath: t.TempDir()},
	})
	require.NoError(t, err)

	_, err = driver.Get(ctx, "user_generated_code/abc")
	assert.True(t, errors.Is(err, ErrNotFound), err)

	require.NoError(t, driver.Put(ctx, "user_generated_code/abc", []byte{0, 97, 115, 109}))
	data, err := driver.Get(ctx, "user_generated_code/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 97, 115, 109}, data)

	require.NoError(t, driver.Put(ctx, "user_generated_code/abc", []byte("v2")))
	data, err = driver.Get(ctx, "user_generated_code/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

}

func TestLocalFilesystemRejectsEscapingKeys(t *testing.T) {
	base := t.TempDir()
	driver, err := NewLocalFilesystem(filepath.Join(base, "kss"))
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, driver.Put(ctx, "../outside", []byte("x")))
	assert.Error(t, driver.Put(ctx, "", []byte("x")))

	_, err = os.Stat(filepath.Join(base, "outside"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewConfigurations(t *testing.T) {
	ctx := context.Background()

	driver, err := New(ctx, Configuration{DriverType: None})
	require.NoError(t, err)
	assert.Nil(t, driver)

	_, err = New(ctx, Configuration{DriverType: DriverTypeLocal})
	assert.Error(t, err)

	_, err = New(ctx, Configuration{DriverType: DriverTypeAWSS3, S3Configuration: &S3Configuration{}})
	assert.Error(t, err)

	_, err = New(ctx, Configuration{DriverType: "FTP"})
	assert.Error(t, err)
}

func TestS3KeyPrefix(t *testing.T) {
	driver, err := New(context.Background(), Configuration{
		DriverType: DriverTypeAWSS3,
		S3Configuration: &S3Configuration{
			AWSRegion:     "eu-central-1",
			AWSBucketName: "todo-app",
			AccessID:      "id",
			AccessKey:     "secret",
			KeyPrefix:     "staging/",
		},
	})
	require.NoError(t, err)
	s3Driver, ok := driver.(*S3)
	require.True(t, ok)
	assert.Equal(t, "todo-app", s3Driver.bucket)
	assert.Equal(t, "staging/", s3Driver.baseKeyName)
}
