package s3

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const mockPageSize = 2

// NewMock returns a Store backed by an in-process fake of the S3 HTTP API.
// Only the object operations used by core.Store are implemented. Listings are
// paginated two keys per page.
func NewMock(ctx context.Context) (*Store, error) {
	rt := &mockRoundTripper{objects: make(map[string]mockObject)}
	return New(ctx, Config{
		Region:          "us-east-1",
		Bucket:          "mock-bucket",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIAMOCK",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
	})
}

type mockRoundTripper struct {
	mu      sync.Mutex
	objects map[string]mockObject
}

type mockObject struct {
	body        []byte
	contentType string
	modified    time.Time
}

type listBucketResult struct {
	XMLName               xml.Name        `xml:"ListBucketResult"`
	IsTruncated           bool            `xml:"IsTruncated"`
	NextContinuationToken string          `xml:"NextContinuationToken,omitempty"`
	KeyCount              int             `xml:"KeyCount"`
	Contents              []listedContent `xml:"Contents"`
}

type listedContent struct {
	Key          string `xml:"Key"`
	Size         int    `xml:"Size"`
	ETag         string `xml:"ETag"`
	LastModified string `xml:"LastModified"`
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) { //nolint:cyclop
	m.mu.Lock()
	defer m.mu.Unlock()
	// path style: /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key, _ = url.PathUnescape(parts[1])
	}
	query := req.URL.Query()
	if req.Method == http.MethodGet && query.Get("list-type") == "2" {
		return m.list(query.Get("prefix"), query.Get("continuation-token"))
	}
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		obj, ok := m.objects[key]
		if !ok {
			return mockResponse(http.StatusNotFound, nil, nil), nil
		}
		header := http.Header{
			"Content-Length": {strconv.Itoa(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"ETag":           {"\"" + mockETag(obj.body) + "\""},
			"Last-Modified":  {obj.modified.Format(http.TimeFormat)},
		}
		if req.Method == http.MethodHead {
			return mockResponse(http.StatusOK, header, nil), nil
		}
		return mockResponse(http.StatusOK, header, obj.body), nil
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		if _, exists := m.objects[key]; !exists {
			m.objects[key] = mockObject{body: body, contentType: req.Header.Get("Content-Type"), modified: time.Now().UTC().Truncate(time.Second)}
		}
		return mockResponse(http.StatusOK, http.Header{"ETag": {"\"" + mockETag(body) + "\""}}, nil), nil
	case http.MethodDelete:
		delete(m.objects, key)
		return mockResponse(http.StatusNoContent, nil, nil), nil
	}
	return mockResponse(http.StatusNotImplemented, nil, nil), nil
}

func (m *mockRoundTripper) list(prefix, token string) (*http.Response, error) {
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) && k > token {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	result := listBucketResult{}
	if len(keys) > mockPageSize {
		keys = keys[:mockPageSize]
		result.IsTruncated = true
		result.NextContinuationToken = keys[len(keys)-1]
	}
	for _, k := range keys {
		obj := m.objects[k]
		result.Contents = append(result.Contents, listedContent{
			Key:          k,
			Size:         len(obj.body),
			ETag:         "\"" + mockETag(obj.body) + "\"",
			LastModified: obj.modified.Format(time.RFC3339),
		})
	}
	result.KeyCount = len(result.Contents)
	body, err := xml.Marshal(result)
	if err != nil {
		return nil, err
	}
	return mockResponse(http.StatusOK, http.Header{"Content-Type": {"application/xml"}}, body), nil
}

func mockResponse(status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: status, Header: header, Body: io.NopCloser(bytes.NewReader(body)), ContentLength: int64(len(body))}
}

func mockETag(body []byte) string {
	return strconv.FormatInt(int64(len(body)), 16) + "-mock"
}

// decodeChunked decodes a single-chunk aws-chunked payload:
// <hex size>\r\n<body>\r\n0\r\n[trailers]
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(chunkSize(parts[0]), 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || chunkSize(parts[2]) != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func chunkSize(line string) string {
	size, _, _ := strings.Cut(line, ";")
	return size
}
