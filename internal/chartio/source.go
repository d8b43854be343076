package chartio

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// MaxChartSize bounds how much of a chart source is read.
const MaxChartSize = 8 << 20

// Opener reads chart bytes from a local path or an s3://bucket/key URI.
type Opener struct {
	// S3 is used for s3:// URIs. Nil creates a client from the default AWS
	// session on first use.
	S3 s3iface.S3API
}

func (o *Opener) Open(ctx context.Context, uri string) ([]byte, error) {
	if bucket, key, ok := splitS3(uri); ok {
		return o.openS3(ctx, bucket, key)
	}
	f, err := os.Open(uri)
	if err != nil {
		return nil, errors.Wrap(err, "chartio: open")
	}
	defer f.Close()
	return readLimited(f, uri)
}

// OpenText opens uri and decodes it with label.
func (o *Opener) OpenText(ctx context.Context, uri, label string) (string, error) {
	raw, err := o.Open(ctx, uri)
	if err != nil {
		return "", err
	}
	return Decode(raw, label)
}

func (o *Opener) openS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if o.S3 == nil {
		sess, err := session.NewSession()
		if err != nil {
			return nil, errors.Wrap(err, "chartio: aws session")
		}
		o.S3 = s3.New(sess)
	}
	out, err := o.S3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "chartio: get s3://%s/%s", bucket, key)
	}
	defer out.Body.Close()
	return readLimited(out.Body, "s3://"+bucket+"/"+key)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxChartSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "chartio: read %s", name)
	}
	if len(raw) > MaxChartSize {
		return nil, errors.Errorf("chartio: %s is larger than %d bytes", name, MaxChartSize)
	}
	return raw, nil
}

func splitS3(uri string) (string, string, bool) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
