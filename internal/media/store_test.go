package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key, err := ObjectKey("products", 42, "image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "products/42/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = ObjectKey("products", 42, "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStoreSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewLocalStore(dir, "/media/", nil)

	url, err := s.Save(context.Background(), "banners/1/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/media/banners/1/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "banners", "1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = s.Save(context.Background(), "../escape.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStoreFailed)
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreSave(t *testing.T) {
	t.Parallel()

	t.Run("uploads and returns public url", func(t *testing.T) {
		t.Parallel()
		fake := &fakePutter{}
		s := newS3Store(fake, "shop-media", "https://cdn.example.com", nil)

		url, err := s.Save(context.Background(), "products/7/x.jpg", "image/jpeg", strings.NewReader("jpeg"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/products/7/x.jpg", url)
		assert.Equal(t, "shop-media", aws.ToString(fake.in.Bucket))
		assert.Equal(t, "products/7/x.jpg", aws.ToString(fake.in.Key))
		assert.Equal(t, "image/jpeg", aws.ToString(fake.in.ContentType))
		assert.Equal(t, "jpeg", fake.body)
	})

	t.Run("upload error", func(t *testing.T) {
		t.Parallel()
		s := newS3Store(&fakePutter{err: errors.New("AccessDenied")}, "b", "https://cdn", nil)
		_, err := s.Save(context.Background(), "k.png", "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrStoreFailed)
	})
}
