package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"versioned with folder", "https://res.cloudinary.com/demo/image/upload/v123456789/recipes/sample.webp", "recipes/sample"},
		{"no version", "https://res.cloudinary.com/demo/image/upload/recipes/tiramisu.jpg", "recipes/tiramisu"},
		{"folder starting with v", "https://res.cloudinary.com/demo/image/upload/v12/vegan/soup.png", "vegan/soup"},
		{"not cloudinary", "https://example.com/images/a.png", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPublicID(tt.url))
		})
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_UploadAndDelete(t *testing.T) {
	fake := &fakeS3{}
	st := newS3Storage(fake, "photos", "eu-west-1", "")

	link, err := st.UploadImage(context.Background(), io.NopCloser(strings.NewReader("jpeg-bytes")), "recipes", "my tiramisu.jpg")
	require.NoError(t, err)

	require.NotNil(t, fake.put)
	key := aws.ToString(fake.put.Key)
	assert.True(t, strings.HasPrefix(key, "recipes/"))
	assert.True(t, strings.HasSuffix(key, "-my_tiramisu.jpg"))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.put.ContentType))
	assert.Equal(t, "jpeg-bytes", fake.body)
	assert.Equal(t, "https://photos.s3.eu-west-1.amazonaws.com/"+key, link)

	require.NoError(t, st.DeleteImage(context.Background(), link))
	assert.Equal(t, []string{key}, fake.deleted)
}

func TestS3Storage_PublicURL(t *testing.T) {
	fake := &fakeS3{}
	st := newS3Storage(fake, "photos", "eu-west-1", "https://cdn.example.com/")

	link, err := st.UploadImage(context.Background(), strings.NewReader("x"), "", "a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://cdn.example.com/"))

	require.NoError(t, st.DeleteImage(context.Background(), link))
	assert.Equal(t, aws.ToString(fake.put.Key), fake.deleted[0])
}

func TestS3Storage_UploadError(t *testing.T) {
	st := newS3Storage(&fakeS3{putErr: errors.New("boom")}, "photos", "eu-west-1", "")

	_, err := st.UploadImage(context.Background(), strings.NewReader("x"), "recipes", "a.png")
	assert.ErrorContains(t, err, "boom")
}

func TestNew_Disabled(t *testing.T) {
	st, err := New(context.Background(), Options{Provider: ProviderNone})
	require.NoError(t, err)

	_, err = st.UploadImage(context.Background(), strings.NewReader("x"), "", "a.png")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, st.DeleteImage(context.Background(), "https://example.com/a.png"))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "ftp"})
	assert.Error(t, err)
}

func TestS3Storage_DeleteForeignURL(t *testing.T) {
	fake := &fakeS3{}
	st := newS3Storage(fake, "photos", "eu-west-1", "")

	err := st.DeleteImage(context.Background(), "https://example.com/recipes/a.png")
	assert.Error(t, err)
	assert.Empty(t, fake.deleted)
}
