package har

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKey matches query, form, JSON and header names whose values must
// not be committed.
var sensitiveKey = regexp.MustCompile(`(?i)passw(or)?d|secret|token|session|sess_|auth|jwt|bearer|api_?key|credential|access_key|private_key|otp`)

var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"proxy-authorization": true,
}

var (
	jsonString = regexp.MustCompile(`("[^"]*")\s*:\s*"[^"]*"`)
	jsonScalar = regexp.MustCompile(`("[^"]*")\s*:\s*([^"\s,}\]\[{][^,}\]]*)`)
)

// Redact returns a copy of rec with credentials, tokens and session data
// replaced in URLs, headers and bodies, and the number of values replaced.
// The input is not modified.
func Redact(rec *Log) (*Log, int) {
	r := &redactor{}
	out := &Log{Entries: make([]Entry, len(rec.Entries))}

	for i, e := range rec.Entries {
		out.Entries[i] = Entry{
			Request: Request{
				Method:  e.Request.Method,
				URL:     r.url(e.Request.URL),
				Headers: r.headers(e.Request.Headers),
				Body:    r.body(e.Request.Body),
			},
			Response: Response{
				Status:  e.Response.Status,
				Headers: r.headers(e.Response.Headers),
				Content: Content{
					MimeType: e.Response.Content.MimeType,
					Text:     r.body(e.Response.Content.Text),
					Encoding: e.Response.Content.Encoding,
					Size:     e.Response.Content.Size,
				},
			},
		}
	}

	return out, r.count
}

type redactor struct {
	count int
}

func (r *redactor) url(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	q := u.Query()
	if !r.values(q) {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (r *redactor) headers(headers []Header) []Header {
	if headers == nil {
		return nil
	}

	out := make([]Header, len(headers))
	for i, h := range headers {
		out[i] = h
		if sensitiveHeaders[strings.ToLower(h.Name)] || sensitiveKey.MatchString(h.Name) {
			out[i].Value = redacted
			r.count++
		}
	}
	return out
}

func (r *redactor) body(body string) string {
	trimmed := strings.TrimSpace(body)
	switch {
	case trimmed == "":
		return body
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return r.json(body)
	case strings.Contains(body, "="):
		values, err := url.ParseQuery(body)
		if err != nil || !r.values(values) {
			return body
		}
		return values.Encode()
	}
	return body
}

// values redacts sensitive keys in place and reports whether any were found.
func (r *redactor) values(v url.Values) bool {
	found := false
	for key := range v {
		if sensitiveKey.MatchString(key) {
			v.Set(key, redacted)
			r.count++
			found = true
		}
	}
	return found
}

func (r *redactor) json(body string) string {
	for _, re := range []*regexp.Regexp{jsonString, jsonScalar} {
		body = re.ReplaceAllStringFunc(body, func(m string) string {
			key := re.FindStringSubmatch(m)[1]
			if !sensitiveKey.MatchString(key) || strings.HasSuffix(m, `"`+redacted+`"`) {
				return m
			}
			r.count++
			return key + `: "` + redacted + `"`
		})
	}
	return body
}
