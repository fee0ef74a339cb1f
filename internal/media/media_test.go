package media

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// smallest valid PNG: 1x1 transparent pixel
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{"png", "data:image/png;base64," + pixelPNG, false},
		{"no scheme", pixelPNG, true},
		{"not base64", "data:image/png," + pixelPNG, true},
		{"bad payload", "data:image/png;base64,!!!", true},
		{"empty payload", "data:image/png;base64,", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeDataURI() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveImageLocal(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/media/")

	url, err := SaveImage(context.Background(), store, "data:image/png;base64,"+pixelPNG)
	if err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/media/"+ImagePrefix) || !strings.HasSuffix(url, ".png") {
		t.Errorf("SaveImage() url = %q", url)
	}

	key := strings.TrimPrefix(url, "http://localhost:8080/media/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	want, _ := base64.StdEncoding.DecodeString(pixelPNG)
	if string(data) != string(want) {
		t.Error("stored bytes differ from upload")
	}
}

func TestSaveImageRejectsNonImage(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost/media")
	text := base64.StdEncoding.EncodeToString([]byte("just some text"))

	_, err := SaveImage(context.Background(), store, "data:image/png;base64,"+text)
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("SaveImage() error = %v, want ErrInvalidImage", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost/media")
	if _, err := store.Save(context.Background(), "../escape.png", []byte("x"), "image/png"); err == nil {
		t.Error("Save() accepted a key outside the root")
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreSave(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "foodgram-media", publicURL: "https://cdn.example.com"}

	url, err := store.Save(context.Background(), "recipes/images/a.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url != "https://cdn.example.com/recipes/images/a.png" {
		t.Errorf("Save() url = %q", url)
	}
	if aws.ToString(fake.input.Bucket) != "foodgram-media" || aws.ToString(fake.input.Key) != "recipes/images/a.png" {
		t.Errorf("PutObject input = %+v", fake.input)
	}
	if aws.ToString(fake.input.ContentType) != "image/png" || string(fake.body) != "png" {
		t.Errorf("PutObject content = %q (%s)", fake.body, aws.ToString(fake.input.ContentType))
	}
}
