package model

import (
	"net/url"
	"strings"
)

// ReferenceType identifies how a reference was captured.
type ReferenceType string

const (
	ReferenceWebpage ReferenceType = "webpage"
	ReferenceText    ReferenceType = "text"
)

// Reference is grounding material attached to a conversation: a captured web
// page or a text selection.
type Reference struct {
	Type    ReferenceType `json:"type"`
	Title   string        `json:"title"`
	URL     string        `json:"url,omitempty"` // Empty for text references
	Content string        `json:"content"`
}

// NewPageReference creates a webpage reference.
func NewPageReference(title, pageURL, content string) Reference {
	return Reference{Type: ReferenceWebpage, Title: title, URL: pageURL, Content: content}
}

// NewTextReference creates a text reference.
func NewTextReference(title, content string) Reference {
	return Reference{Type: ReferenceText, Title: title, Content: content}
}

// RefKey is the structural identity of a reference: type plus normalized URL
// for webpages, type plus title otherwise. Webpage references are deduped on
// this key.
type RefKey struct {
	Type    ReferenceType
	Locator string
}

// Key returns the structural identity used for duplicate detection.
func (r Reference) Key() RefKey {
	if r.Type == ReferenceWebpage {
		return RefKey{Type: r.Type, Locator: NormalizeURL(r.URL)}
	}
	return RefKey{Type: r.Type, Locator: r.Title}
}

// ID returns the display/storage identifier, "webpage:<url>" or "text:<title>".
func (r Reference) ID() string {
	if r.Type == ReferenceWebpage {
		return string(r.Type) + ":" + r.URL
	}
	return string(r.Type) + ":" + r.Title
}

// NormalizeURL canonicalizes a URL for duplicate detection: scheme and host
// are lowercased, the fragment and a trailing path slash are dropped. Invalid
// URLs are returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}
