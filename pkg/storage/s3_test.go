package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var (
	errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}
	errNotFound  = &apiError{code: "NotFound", msg: "not found"}
)

// mockS3 is a thread-safe in-memory S3 backend that pages listings two
// keys at a time.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	lists   int

	listErr error
}

func newMockS3(objects map[string]string) *mockS3 {
	m := &mockS3{objects: make(map[string][]byte)}
	for k, v := range objects {
		m.objects[k] = []byte(v)
	}
	return m
}

var modTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, errNotFound
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		LastModified:  aws.Time(modTime),
	}, nil
}

func (m *mockS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++

	prefix := aws.ToString(in.Prefix)
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(m.objects[k]))),
			LastModified: aws.Time(modTime),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func TestS3OpenAndStat(t *testing.T) {
	mock := newMockS3(map[string]string{"kb/a.txt": "hello"})
	src := NewS3(mock, "bucket", "kb/")
	ctx := context.Background()

	rc, err := src.Open(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}

	obj, err := src.Stat(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if obj.Path != "a.txt" || obj.Size != 5 || !obj.ModTime.Equal(modTime) {
		t.Errorf("Stat = %+v", obj)
	}
}

func TestS3NotFound(t *testing.T) {
	src := NewS3(newMockS3(nil), "bucket", "")
	ctx := context.Background()

	if _, err := src.Open(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open missing: %v", err)
	}
	if _, err := src.Stat(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat missing: %v", err)
	}
}

func TestS3ListPaginates(t *testing.T) {
	mock := newMockS3(map[string]string{
		"kb/a.txt":     "a",
		"kb/b.txt":     "bb",
		"kb/sub/":      "",
		"kb/sub/c.txt": "ccc",
		"kb/sub/d.txt": "dddd",
		"other/x.txt":  "x",
	})
	src := NewS3(mock, "bucket", "kb")

	objs, err := src.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a.txt", "b.txt", "sub/c.txt", "sub/d.txt"}
	if len(objs) != len(want) {
		t.Fatalf("List = %+v", objs)
	}
	for i, w := range want {
		if objs[i].Path != w {
			t.Errorf("List[%d] = %q, want %q", i, objs[i].Path, w)
		}
	}
	if objs[3].Size != 4 {
		t.Errorf("size = %d, want 4", objs[3].Size)
	}
	if mock.lists != 3 {
		t.Errorf("ListObjectsV2 called %d times, want 3", mock.lists)
	}

	sub, err := src.List(context.Background(), "sub")
	if err != nil {
		t.Fatal(err)
	}
	if len(sub) != 2 || sub[0].Path != "sub/c.txt" {
		t.Errorf("List(sub) = %+v", sub)
	}
}

func TestS3ListError(t *testing.T) {
	mock := newMockS3(nil)
	mock.listErr = errors.New("denied")
	if _, err := NewS3(mock, "bucket", "").List(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "denied") {
		t.Errorf("List err = %v", err)
	}
}

func TestIsS3NotFound(t *testing.T) {
	if !isS3NotFound(errNoSuchKey) || !isS3NotFound(errNotFound) {
		t.Error("expected not-found codes to match")
	}
	if isS3NotFound(&apiError{code: "AccessDenied"}) || isS3NotFound(errors.New("x")) {
		t.Error("unexpected match")
	}
}

func TestNewS3Client_RequiresCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := NewS3Client(S3Config{}); err == nil {
		t.Error("expected error without credentials")
	}
	c, err := NewS3Client(S3Config{AccessKeyID: "id", SecretAccessKey: "secret", Endpoint: "http://localhost:9000", PathStyle: true})
	if err != nil || c == nil {
		t.Errorf("NewS3Client = %v, %v", c, err)
	}
}
