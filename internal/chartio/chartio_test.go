package chartio

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

const title = "#TITLE: 夜明けの唄\n#BPM: 120\n"

func TestDecodeUTF8(t *testing.T) {
	got, err := Decode([]byte(title), "")
	require.NoError(t, err)
	assert.Equal(t, title, got)
}

func TestDecodeUTF8BOM(t *testing.T) {
	got, err := Decode(append([]byte{0xEF, 0xBB, 0xBF}, title...), LabelAuto)
	require.NoError(t, err)
	assert.Equal(t, title, got)
}

func TestDecodeUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	raw, err := enc.Bytes([]byte(title))
	require.NoError(t, err)
	got, err := Decode(raw, "")
	require.NoError(t, err)
	assert.Equal(t, title, got)
}

func TestDecodeShiftJISDetected(t *testing.T) {
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(title))
	require.NoError(t, err)
	got, err := Decode(raw, "")
	require.NoError(t, err)
	assert.Equal(t, title, got)
}

func TestDecodeExplicitLabel(t *testing.T) {
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(title))
	require.NoError(t, err)
	got, err := Decode(raw, "Shift_JIS")
	require.NoError(t, err)
	assert.Equal(t, title, got)

	_, err = Decode(raw, "no-such-encoding")
	assert.Error(t, err)
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	gotKey  string
}

func (f *fakeS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.gotKey = aws.StringValue(in.Bucket) + "/" + aws.StringValue(in.Key)
	body, ok := f.objects[f.gotKey]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestOpenS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"charts/songs/a.dtx": title}}
	o := &Opener{S3: fake}
	got, err := o.OpenText(context.Background(), "s3://charts/songs/a.dtx", "")
	require.NoError(t, err)
	assert.Equal(t, "charts/songs/a.dtx", fake.gotKey)
	assert.Equal(t, title, got)

	_, err = o.Open(context.Background(), "s3://charts/missing.dtx")
	assert.Error(t, err)
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.dtx")
	require.NoError(t, os.WriteFile(path, []byte(title), 0o644))
	got, err := (&Opener{}).OpenText(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, title, got)

	_, err = (&Opener{}).Open(context.Background(), filepath.Join(t.TempDir(), "missing.dtx"))
	assert.Error(t, err)
}

func TestSplitS3(t *testing.T) {
	cases := []struct {
		uri    string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://b/k.dtx", "b", "k.dtx", true},
		{"s3://b/dir/k.dtx", "b", "dir/k.dtx", true},
		{"s3://b", "", "", false},
		{"/tmp/k.dtx", "", "", false},
	}
	for _, tc := range cases {
		b, k, ok := splitS3(tc.uri)
		assert.Equal(t, tc.ok, ok, tc.uri)
		assert.Equal(t, tc.bucket, b, tc.uri)
		assert.Equal(t, tc.key, k, tc.uri)
	}
}
