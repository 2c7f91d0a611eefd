package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svgasset/sink"
)

type fakeStore struct {
	exists     bool
	existsErr  error
	made       []string
	puts       map[string][]byte
	contentTyp string
}

func (f *fakeStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, _ string, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[key] = b
	f.contentTyp = opts.ContentType
	return minio.UploadInfo{Key: key, Size: int64(len(b))}, nil
}

func TestDriver_PutCreatesBucketOnceAndPrefixesKeys(t *testing.T) {
	fs := &fakeStore{}
	d := &Driver{store: fs, bucket: "assets", region: "us-east-1", prefix: "svg"}

	require.NoError(t, d.Put(context.Background(), "abc.svg", []byte("<symbol/>")))
	require.NoError(t, d.Put(context.Background(), "/nested/def.svg", []byte("<svg/>")))

	assert.Equal(t, []string{"assets"}, fs.made)
	assert.Equal(t, "<symbol/>", string(fs.puts["svg/abc.svg"]))
	assert.Equal(t, "<svg/>", string(fs.puts["svg/nested/def.svg"]))
	assert.Equal(t, contentTypeSVG, fs.contentTyp)
}

func TestDriver_EnsureBucketErrorPropagates(t *testing.T) {
	d := &Driver{store: &fakeStore{existsErr: errors.New("denied")}, bucket: "assets"}
	err := d.Put(context.Background(), "a.svg", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestDriver_ConfigureValidates(t *testing.T) {
	a, err := sink.NewAdapter("s3")
	require.NoError(t, err)

	assert.Error(t, a.Configure(Config{}))
	assert.Error(t, a.Configure(Config{Endpoint: "localhost:9000"}))
	assert.Error(t, a.Configure(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}))
	require.NoError(t, a.Configure(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "assets", Prefix: "/svg/"}))

	d := a.(*Driver)
	assert.Equal(t, "svg", d.prefix)
	assert.Equal(t, "us-east-1", d.region)
}

func TestDriver_Unconfigured(t *testing.T) {
	assert.Error(t, (&Driver{}).Put(context.Background(), "a.svg", nil))
}
