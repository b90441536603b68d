package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophchat/internal/filex"
	sc "github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return pc.PresignPostObject(ctx, in, optFns...)
	}

	timeNow = time.Now
)

// Grant is a presigned POST handed to the client.
type Grant struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
	Key    string            `json:"key"`
}

// Presigner issues presigned POST grants for an S3-compatible bucket.
type Presigner struct {
	config *sc.Config
}

func NewPresigner(c *sc.Config) *Presigner {
	return &Presigner{config: c}
}

// StorageKey returns a fresh, date-partitioned object key ending in name.
func StorageKey(name string) string {
	d := timeNow()
	return fmt.Sprintf("uploads/%d/%d/%d/%v/%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}

func (p *Presigner) client(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(p.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Presign returns a POST grant for a new object named after filename.
func (p *Presigner) Presign(ctx context.Context, filename, contentType string) (*Grant, error) {
	pc, err := p.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	bucket := p.config.S3Bucket
	name := filex.SafeName(filename)
	if name == "" {
		name = "file"
	}
	key := StorageKey(name)
	in := &s3.PutObjectInput{Bucket: &bucket, Key: &key}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPostObject(pc, ctx, in, func(o *s3.PresignPostOptions) {
		o.Expires = p.config.PresignExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign post: %w", err)
	}

	fields := make(map[string]string, len(req.Values))
	for k, v := range req.Values {
		fields[k] = v
	}
	if _, ok := fields["key"]; !ok {
		fields["key"] = key
	}

	return &Grant{URL: req.URL, Fields: fields, Key: key}, nil
}
