package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest — запрос, полученный тестовым сервером.
type recordedRequest struct {
	Path    string
	Header  http.Header
	Body    []byte
	Channel string
	File    []byte
	Name    string
}

// fakeServer отвечает статусами из очереди и записывает запросы.
type fakeServer struct {
	*httptest.Server
	mu          sync.Mutex
	requests    []recordedRequest
	postStatus  []int
	uploadReply func(n int) (int, string)
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	s := &fakeServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Path: r.URL.Path, Header: r.Header.Clone()}
	if r.URL.Path == filesPath {
		_, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			switch part.FormName() {
			case "channel_id":
				rec.Channel = string(data)
			case "files":
				rec.File = data
				rec.Name = part.FileName()
			}
		}
	} else {
		rec.Body, _ = io.ReadAll(r.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	n := s.count(r.URL.Path)
	s.mu.Unlock()

	switch r.URL.Path {
	case postsPath:
		status := http.StatusCreated
		if n <= len(s.postStatus) {
			status = s.postStatus[n-1]
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"id":"post1","channel_id":"chan"}`)
	case filesPath:
		status, body := http.StatusCreated, `{"file_infos":[{"id":"file1"}]}`
		if s.uploadReply != nil {
			status, body = s.uploadReply(n)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// count вызывается под s.mu.
func (s *fakeServer) count(path string) int {
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *fakeServer) byPath(path string) []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *fakeServer) lastPost(t *testing.T) Post {
	t.Helper()
	posts := s.byPath(postsPath)
	require.NotEmpty(t, posts)
	var p Post
	require.NoError(t, json.Unmarshal(posts[len(posts)-1].Body, &p))
	return p
}

func newTestClient(t *testing.T, url string, mutate func(*MattermostConfig)) (*MattermostClient, *testLogger) {
	t.Helper()
	cfg := DefaultMattermostConfig()
	cfg.URL = url + "/"
	cfg.Token = "secret-token"
	cfg.ChannelID = "chan"
	cfg.RetryDelay = time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	logger := &testLogger{}
	return NewMattermostClient(cfg, logger), logger
}

func TestMattermostClient_CreatePost(t *testing.T) {
	srv := newFakeServer(t)
	c, _ := newTestClient(t, srv.URL, nil)

	resp, err := c.CreatePost(context.Background(), NewPost("chan", "hello", PriorityUrgent))
	require.NoError(t, err)
	assert.Equal(t, "post1", resp.ID)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	req := srv.byPath(postsPath)[0]
	assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"channel_id":"chan","message":"hello","metadata":{"priority":{"priority":"urgent"}}}`, string(req.Body))
}

func TestMattermostClient_PostMatchesSchema(t *testing.T) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(filepath.Join("testdata", "post.schema.json"))
	require.NoError(t, err)

	posts := []Post{
		NewPost("chan", "plain", ""),
		NewPost("chan", "urgent", PriorityImportant),
		{ChannelID: "chan", Message: "summary", FileIDs: []string{"f1"}},
	}
	for _, p := range posts {
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		inst, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
		require.NoError(t, err)
		assert.NoError(t, schema.Validate(inst), string(raw))
	}

	bogus, err := jsonschema.UnmarshalJSON(strings.NewReader(`{"channel_id":"c","message":"m","metadata":{"priority":{"priority":"bogus"}}}`))
	require.NoError(t, err)
	assert.Error(t, schema.Validate(bogus))
}

func TestNewPost_InvalidPriorityOmitsMetadata(t *testing.T) {
	raw, err := json.Marshal(NewPost("chan", "m", Priority("bogus")))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "metadata")
	assert.NotContains(t, string(raw), "file_ids")
}

func TestMattermostClient_RetriesNon2xx(t *testing.T) {
	srv := newFakeServer(t)
	srv.postStatus = []int{500, 500, 200}
	c, _ := newTestClient(t, srv.URL, nil)

	_, err := c.CreatePost(context.Background(), NewPost("chan", "m", ""))

	require.NoError(t, err)
	assert.Len(t, srv.byPath(postsPath), 3)
}

func TestMattermostClient_RetryBudgetExhausted(t *testing.T) {
	srv := newFakeServer(t)
	srv.postStatus = []int{400, 400, 400, 400}
	c, _ := newTestClient(t, srv.URL, func(m *MattermostConfig) { m.RetryTimes = 2 })

	_, err := c.CreatePost(context.Background(), NewPost("chan", "m", ""))

	require.Error(t, err)
	assert.Len(t, srv.byPath(postsPath), 2)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Contains(t, err.Error(), "create_post failed after 2 attempt(s)")
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestMattermostClient_NetworkError(t *testing.T) {
	c, _ := newTestClient(t, "http://127.0.0.1:1", func(m *MattermostConfig) { m.RetryTimes = 1 })

	_, err := c.CreatePost(context.Background(), NewPost("chan", "m", ""))

	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}

func TestMattermostClient_PerAttemptTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer slow.Close()

	c, _ := newTestClient(t, slow.URL, func(m *MattermostConfig) {
		m.RetryTimes = 2
		m.Timeout = 20 * time.Millisecond
	})

	start := time.Now()
	_, err := c.CreatePost(context.Background(), NewPost("chan", "m", ""))

	require.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestMattermostClient_ContextCanceled(t *testing.T) {
	srv := newFakeServer(t)
	c, _ := newTestClient(t, srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CreatePost(ctx, NewPost("chan", "m", ""))

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMattermostClient_UploadFile(t *testing.T) {
	srv := newFakeServer(t)
	c, _ := newTestClient(t, srv.URL, nil)

	ids, err := c.UploadFile(context.Background(), "chan", "message.md", []byte("full text"))

	require.NoError(t, err)
	assert.Equal(t, []string{"file1"}, ids)
	req := srv.byPath(filesPath)[0]
	assert.Equal(t, "chan", req.Channel)
	assert.Equal(t, "message.md", req.Name)
	assert.Equal(t, "full text", string(req.File))
	assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
}

func TestMattermostClient_UploadFileNoFileInfosIsPermanent(t *testing.T) {
	srv := newFakeServer(t)
	srv.uploadReply = func(int) (int, string) { return http.StatusCreated, `{"file_infos":[]}` }
	c, _ := newTestClient(t, srv.URL, nil)

	_, err := c.UploadFile(context.Background(), "chan", "message.md", []byte("x"))

	assert.ErrorIs(t, err, ErrUploadNoFileIDs)
	assert.Len(t, srv.byPath(filesPath), 1, "пустой ответ не повторяется")
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 503, StatusCode(&HTTPError{StatusCode: 503}))
	assert.Equal(t, 502, StatusCode(errors.Join(errors.New("x"), &HTTPError{StatusCode: 502})))
	assert.Zero(t, StatusCode(errors.New("dial tcp")))
}
