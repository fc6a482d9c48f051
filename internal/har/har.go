// Package har reads, replays and redacts HTTP recordings so page suites can
// run against a site without reaching it. Recordings are served to rod
// sessions through a hijack router.
package har

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Log is the trimmed-down HAR format recordings are stored in.
type Log struct {
	Entries []Entry `json:"entries"`
}

// Entry is one request/response pair.
type Entry struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

type Request struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers,omitempty"`
	Body    string   `json:"body,omitempty"`
}

type Response struct {
	Status  int      `json:"status"`
	Headers []Header `json:"headers,omitempty"`
	Content Content  `json:"content"`
}

type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Content is a response body. Binary bodies are base64 with Encoding set
// to "base64".
type Content struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	Encoding string `json:"encoding,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// Header returns the first header named name, ignoring case.
func (r Response) Header(name string) string {
	return headerValue(r.Headers, name)
}

// devtoolsLog is the HAR 1.2 layout exported by browser devtools: entries sit
// under "log" and request bodies under "postData".
type devtoolsLog struct {
	Log struct {
		Entries []struct {
			Request struct {
				Method   string   `json:"method"`
				URL      string   `json:"url"`
				Headers  []Header `json:"headers,omitempty"`
				PostData *struct {
					Text string `json:"text"`
				} `json:"postData,omitempty"`
			} `json:"request"`
			Response Response `json:"response"`
		} `json:"entries"`
	} `json:"log"`
}

// Load reads a recording in either the devtools HAR 1.2 layout or the
// trimmed layout written by Save.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read HAR file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a recording, detecting its layout.
func Parse(data []byte) (*Log, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse HAR JSON: invalid document")
	}

	if gjson.GetBytes(data, "log.entries").IsArray() {
		var dt devtoolsLog
		if err := json.Unmarshal(data, &dt); err != nil {
			return nil, fmt.Errorf("parse devtools HAR: %w", err)
		}

		rec := &Log{Entries: make([]Entry, len(dt.Log.Entries))}
		for i, e := range dt.Log.Entries {
			req := Request{Method: e.Request.Method, URL: e.Request.URL, Headers: e.Request.Headers}
			if e.Request.PostData != nil {
				req.Body = e.Request.PostData.Text
			}
			rec.Entries[i] = Entry{Request: req, Response: e.Response}
		}
		return rec, nil
	}

	var rec Log
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse HAR JSON: %w", err)
	}
	return &rec, nil
}

// Save writes rec in the trimmed layout.
func Save(path string, rec *Log) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal HAR: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write HAR file: %w", err)
	}
	return nil
}
