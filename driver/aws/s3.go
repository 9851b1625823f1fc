// Package aws
package aws

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config locates the bucket uploaded assets land in. Credentials ride the
// standard AWS env vars so they never appear in service config.
type Config struct {
	Region string
	Bucket string
	// PathLogo prefixes every logo object key.
	PathLogo string
}

func ConnectAws(cfg Config) (*session.Session, error) {
	keyID := os.Getenv("AWS_ACCESS_KEY_ID")
	keyAccess := os.Getenv("AWS_SECRET_ACCESS_KEY")
	sess, err := session.NewSession(
		&aws.Config{
			Region: aws.String(cfg.Region),
			Credentials: credentials.NewStaticCredentials(
				keyID,
				keyAccess,
				"",
			),
		})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// FileStorage uploads images to S3 and hands back their public location.
type FileStorage struct {
	uploader *s3manager.Uploader
	bucket   string
	pathLogo string
}

func NewFileStorage(sess *session.Session, cfg Config) *FileStorage {
	return &FileStorage{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		pathLogo: cfg.PathLogo,
	}
}

var errEmptyImage = errors.New("empty image payload")

// UploadLogo stores a base64 image, optionally data-URI prefixed, under the
// logo prefix. Re-uploads for the same name overwrite the object.
func (f *FileStorage) UploadLogo(base64Logo, name string) (string, error) {
	data, contentType, ext, err := decodeBase64Image(base64Logo)
	if err != nil {
		return "", err
	}
	out, err := f.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(path.Join(f.pathLogo, name+ext)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", err
	}
	return out.Location, nil
}

// decodeBase64Image splits an optional data-URI header off a base64 image
// payload and decodes the rest. PNG is assumed when no header names a type.
func decodeBase64Image(payload string) ([]byte, string, string, error) {
	contentType := "image/png"
	ext := ".png"
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		header := payload[:idx]
		payload = payload[idx+1:]
		switch {
		case strings.Contains(header, "image/jpeg"):
			contentType, ext = "image/jpeg", ".jpg"
		case strings.Contains(header, "image/webp"):
			contentType, ext = "image/webp", ".webp"
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", "", err
	}
	if len(data) == 0 {
		return nil, "", "", errEmptyImage
	}
	return data, contentType, ext, nil
}
