package roddriver

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

// snapshotJS serializes the document with open shadow roots and same-origin
// iframes folded in. Shadow content is appended to its host inside
// <div data-shadow-root>; iframe documents are written into the iframe's
// srcdoc attribute so htmldriver can still switch into them. The walk is
// bottom-up: an iframe inside a shadow root must be captured before the
// root is cloned, since the clone holds no live contentDocument.
const snapshotJS = `() => {
	const MAX_DEPTH = 100;
	let shadowRoots = 0;
	let frames = 0;

	function walk(node, depth) {
		if (depth > MAX_DEPTH) return;
		for (const child of Array.from(node.childNodes)) {
			if (child.nodeType !== Node.ELEMENT_NODE) continue;
			if (child.tagName === 'IFRAME') {
				captureFrame(child, depth + 1);
			} else if (child.shadowRoot) {
				captureShadow(child, depth + 1);
			} else {
				walk(child, depth + 1);
			}
		}
	}

	function captureShadow(host, depth) {
		walk(host.shadowRoot, depth);
		const box = document.createElement('div');
		box.setAttribute('data-shadow-root', 'true');
		box.setAttribute('data-shadow-host', host.tagName.toLowerCase());
		for (const child of Array.from(host.shadowRoot.childNodes)) {
			try { box.appendChild(child.cloneNode(true)); } catch (e) {}
		}
		shadowRoots++;
		walk(host, depth);
		host.appendChild(box);
	}

	function captureFrame(iframe, depth) {
		let doc = null;
		try { doc = iframe.contentDocument; } catch (e) {}
		if (!doc || !doc.documentElement) {
			iframe.setAttribute('data-snapshot-error', 'cross-origin or not loaded');
			return;
		}
		walk(doc.documentElement, depth);
		iframe.setAttribute('srcdoc', doc.documentElement.outerHTML);
		frames++;
	}

	walk(document.documentElement, 0);

	return JSON.stringify({
		html: '<!DOCTYPE html>\n' + document.documentElement.outerHTML,
		shadowRoots: shadowRoots,
		frames: frames,
	});
}`

// Snapshot is a self-contained copy of the page, suitable as an htmldriver
// fixture.
type Snapshot struct {
	HTML        string `json:"html"`
	ShadowRoots int    `json:"shadowRoots"`
	Frames      int    `json:"frames"`
}

// Snapshot captures the top-level document with shadow roots and iframes
// folded in. It rewrites the live DOM, so navigate again before interacting
// with the page. If the page cannot run the capture script the plain HTML
// is returned.
func (d *Driver) Snapshot() (Snapshot, error) {
	res, err := d.root.Eval(snapshotJS)
	if err == nil {
		var snap Snapshot
		if err = json.Unmarshal([]byte(res.Value.Str()), &snap); err == nil {
			return snap, nil
		}
	}

	d.log.WithError(err).Debug("snapshot script failed, falling back to plain html")
	html, err := d.root.HTML()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return Snapshot{HTML: html}, nil
}

// WaitStable waits until the DOM of the page and of every visible iframe
// inside it has stopped changing for d.
func WaitStable(page *rod.Page, d time.Duration) error {
	if err := page.WaitDOMStable(d, 0); err != nil {
		return fmt.Errorf("wait for stable dom: %w", err)
	}

	iframes, err := page.Elements("iframe")
	if err != nil {
		return nil
	}

	for _, iframe := range iframes {
		if visible, _ := iframe.Visible(); !visible {
			continue
		}
		frame, err := iframe.Frame()
		if err != nil {
			continue
		}
		if err := WaitStable(frame, d); err != nil {
			return err
		}
	}
	return nil
}
