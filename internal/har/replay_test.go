package har

import (
	"encoding/base64"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplayer(t *testing.T, opts ...Option) *Replayer {
	t.Helper()

	rec := &Log{Entries: []Entry{
		{
			Request:  Request{Method: "GET", URL: "https://app.example.test/login?next=%2Fhome"},
			Response: Response{Status: 200, Content: Content{MimeType: "text/html", Text: "<form></form>"}},
		},
		{
			Request:  Request{Method: "GET", URL: "https://app.example.test/login?next=%2Fother"},
			Response: Response{Status: 500},
		},
		{
			Request: Request{Method: "GET", URL: "https://app.example.test/old"},
			Response: Response{Status: 301, Headers: []Header{
				{Name: "Location", Value: "https://app.example.test/new"},
			}},
		},
		{
			Request:  Request{Method: "GET", URL: "https://app.example.test/new"},
			Response: Response{Status: 200, Content: Content{Text: "moved"}},
		},
		{
			Request: Request{Method: "GET", URL: "https://app.example.test/gone"},
			Response: Response{Status: 302, Headers: []Header{
				{Name: "location", Value: "https://elsewhere.test/"},
			}},
		},
	}}

	logger, _ := test.NewNullLogger()
	return NewReplayer(rec, append([]Option{WithLogger(logger)}, opts...)...)
}

func TestReplayer_Lookup(t *testing.T) {
	r := newTestReplayer(t)

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantFound  bool
	}{
		{"exact url", "https://app.example.test/login?next=%2Fother", 500, true},
		{"path fallback uses first recording", "https://app.example.test/login?next=%2Fnew", 200, true},
		{"redirect followed", "https://app.example.test/old", 200, true},
		{"unrecorded redirect target stops at the redirect", "https://app.example.test/gone", 302, true},
		{"miss", "https://app.example.test/missing", 0, false},
		{"relative url", "/login", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, found := r.Lookup(tt.url)
			require.Equal(t, tt.wantFound, found)
			if found {
				assert.Equal(t, tt.wantStatus, entry.Response.Status)
			}
		})
	}
}

func TestReplayer_Reply(t *testing.T) {
	r := newTestReplayer(t)

	reply := r.Reply("https://app.example.test/login?next=%2Fhome")
	assert.False(t, reply.Continue)
	assert.Equal(t, 200, reply.Status)
	assert.Equal(t, []byte("<form></form>"), reply.Body)
	require.Len(t, reply.Headers, 1)
	assert.Equal(t, "text/html", reply.Headers[0].Value)

	miss := r.Reply("https://app.example.test/missing")
	assert.False(t, miss.Continue)
	assert.Equal(t, 404, miss.Status)
	assert.JSONEq(t, `{"error": "no recording found for URL"}`, string(miss.Body))
}

func TestReplayer_ReplyPassthrough(t *testing.T) {
	r := newTestReplayer(t, WithPassthrough(true))

	miss := r.Reply("https://app.example.test/missing")
	assert.Equal(t, Reply{Continue: true}, miss, "unrecorded requests go to the network")

	hit := r.Reply("https://app.example.test/old")
	assert.False(t, hit.Continue, "recorded requests are still served")
	assert.Equal(t, 200, hit.Status)
	assert.Equal(t, []byte("moved"), hit.Body)
}

func TestReplayer_Stats(t *testing.T) {
	r := newTestReplayer(t)

	assert.Equal(t, map[string]int{"exact_matches": 5, "path_matches": 4}, r.Stats())
}

func TestResponseHeaders(t *testing.T) {
	headers := responseHeaders(Response{
		Headers: []Header{
			{Name: "Content-Encoding", Value: "gzip"},
			{Name: "Content-Length", Value: "42"},
			{Name: "X-Request-Id", Value: "abc"},
		},
		Content: Content{MimeType: "application/json"},
	})

	require.Len(t, headers, 2)
	assert.Equal(t, "X-Request-Id", headers[0].Name)
	assert.Equal(t, "Content-Type", headers[1].Name)
	assert.Equal(t, "application/json", headers[1].Value)
}

func TestBody(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	assert.Equal(t, png, Body(Content{Text: base64.StdEncoding.EncodeToString(png), Encoding: "base64"}))
	assert.Equal(t, []byte("plain"), Body(Content{Text: "plain"}))
	assert.Equal(t, []byte("%%%"), Body(Content{Text: "%%%", Encoding: "base64"}), "undecodable bodies are served as is")
}
