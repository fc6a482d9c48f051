package har

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

const maxRedirects = 10

// Replayer answers browser requests from a HAR recording.
type Replayer struct {
	// exact is keyed by full URL, byPath by URL without the query string.
	exact  map[string]*Entry
	byPath map[string]*Entry

	passthrough bool
	log         logrus.FieldLogger
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithPassthrough lets unmatched requests reach the network instead of
// getting a 404.
func WithPassthrough(enabled bool) Option {
	return func(r *Replayer) {
		r.passthrough = enabled
	}
}

// WithLogger sets the logger for match and miss events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Replayer) {
		r.log = l
	}
}

// NewReplayer indexes rec. When a path was recorded more than once, path
// lookups return the first recording.
func NewReplayer(rec *Log, opts ...Option) *Replayer {
	r := &Replayer{
		exact:  make(map[string]*Entry),
		byPath: make(map[string]*Entry),
		log:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	for i := range rec.Entries {
		entry := &rec.Entries[i]
		r.exact[entry.Request.URL] = entry

		if key, ok := pathKey(entry.Request.URL); ok {
			if _, seen := r.byPath[key]; !seen {
				r.byPath[key] = entry
			}
		}
	}

	return r
}

// Lookup finds the recording for rawURL, trying the full URL and then the
// URL without its query string. Redirects are followed while their target
// was recorded too.
func (r *Replayer) Lookup(rawURL string) (*Entry, bool) {
	entry, ok := r.find(rawURL)
	if !ok {
		return nil, false
	}

	for range maxRedirects {
		if entry.Response.Status < 300 || entry.Response.Status >= 400 {
			break
		}
		location := entry.Response.Header("Location")
		if location == "" {
			break
		}
		next, ok := r.find(location)
		if !ok {
			r.log.WithField("location", location).Debug("redirect target not recorded")
			break
		}
		entry = next
	}

	return entry, true
}

// Reply is what the replayer does with one request: serve the recorded
// response, serve a 404, or let the request reach the network.
type Reply struct {
	Status  int
	Headers []*proto.FetchHeaderEntry
	Body    []byte
	// Continue sends the request on unchanged; the other fields are unset.
	Continue bool
}

// Reply decides how to answer a request for reqURL.
func (r *Replayer) Reply(reqURL string) Reply {
	log := r.log.WithField("url", reqURL)

	entry, ok := r.Lookup(reqURL)
	if !ok {
		if r.passthrough {
			log.Debug("no recording, passing through")
			return Reply{Continue: true}
		}
		log.Debug("no recording, serving 404")
		return Reply{
			Status:  404,
			Headers: []*proto.FetchHeaderEntry{{Name: "Content-Type", Value: "application/json"}},
			Body:    []byte(`{"error": "no recording found for URL"}`),
		}
	}

	log.WithField("status", entry.Response.Status).Debug("serving recording")
	return Reply{
		Status:  entry.Response.Status,
		Headers: responseHeaders(entry.Response),
		Body:    Body(entry.Response.Content),
	}
}

// Hijack returns a handler for rod's HijackRouter.
//
//	router := browser.HijackRequests()
//	router.MustAdd("*", replayer.Hijack())
//	go router.Run()
func (r *Replayer) Hijack() func(*rod.Hijack) {
	return func(h *rod.Hijack) {
		reqURL := h.Request.URL().String()
		h.OnError = func(err error) {
			r.log.WithError(err).WithField("url", reqURL).Warn("answer hijacked request")
		}

		reply := r.Reply(reqURL)
		if reply.Continue {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		serve(h, reply)
	}
}

// Stats reports how many URLs the replayer indexed.
func (r *Replayer) Stats() map[string]int {
	return map[string]int{
		"exact_matches": len(r.exact),
		"path_matches":  len(r.byPath),
	}
}

func (r *Replayer) find(rawURL string) (*Entry, bool) {
	if entry, ok := r.exact[rawURL]; ok {
		return entry, true
	}
	if key, ok := pathKey(rawURL); ok {
		entry, ok := r.byPath[key]
		return entry, ok
	}
	return nil, false
}

// Body decodes a recorded response body.
func Body(c Content) []byte {
	if c.Encoding == "base64" {
		if b, err := base64.StdEncoding.DecodeString(c.Text); err == nil {
			return b
		}
	}
	return []byte(c.Text)
}

// responseHeaders drops headers the browser recomputes for a fulfilled
// request and fills in Content-Type from the recorded MIME type.
func responseHeaders(resp Response) []*proto.FetchHeaderEntry {
	var out []*proto.FetchHeaderEntry
	for _, h := range resp.Headers {
		switch strings.ToLower(h.Name) {
		case "content-encoding", "content-length", "location":
			continue
		}
		out = append(out, &proto.FetchHeaderEntry{Name: h.Name, Value: h.Value})
	}

	if headerValue(resp.Headers, "Content-Type") == "" && resp.Content.MimeType != "" {
		out = append(out, &proto.FetchHeaderEntry{Name: "Content-Type", Value: resp.Content.MimeType})
	}
	return out
}

func serve(h *rod.Hijack, reply Reply) {
	payload := h.Response.Payload()
	payload.ResponseCode = reply.Status
	payload.ResponseHeaders = reply.Headers
	payload.Body = reply.Body
}

func pathKey(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host + u.Path, true
}

func headerValue(headers []Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
