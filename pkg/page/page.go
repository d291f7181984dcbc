// Package page wraps a parsed HTML document as a mutable DOM handle.
package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a live document plus the location it was loaded from.
type Page struct {
	doc      *goquery.Document
	location *url.URL
}

// New parses r as the document found at location.
func New(r io.Reader, location *url.URL) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Page{doc: doc, location: location}, nil
}

// FromString is New for an in-memory document.
func FromString(s string, location *url.URL) (*Page, error) {
	return New(strings.NewReader(s), location)
}

// Location is the URL the page was loaded from; relative resources resolve
// against it.
func (p *Page) Location() *url.URL {
	return p.location
}

// ReplaceRoot discards the whole document and parses markup as its new
// content. Selections obtained before the call no longer belong to the page.
func (p *Page) ReplaceRoot(markup string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to parse shell: %w", err)
	}
	p.doc = doc
	return nil
}

// Query returns the first element matching selector, and whether one exists.
func (p *Page) Query(selector string) (*goquery.Selection, bool) {
	sel := p.doc.Find(selector).First()
	return sel, sel.Length() > 0
}

// Count returns the number of elements matching selector.
func (p *Page) Count(selector string) int {
	return p.doc.Find(selector).Length()
}

// CreateElement returns a detached element named tag with markup as content.
func (p *Page) CreateElement(tag, markup string) *goquery.Selection {
	node := &html.Node{Type: html.ElementNode, Data: tag}
	return goquery.NewDocumentFromNode(node).Selection.AppendHtml(markup)
}

// HTML renders the whole document.
func (p *Page) HTML() (string, error) {
	return goquery.OuterHtml(p.doc.Selection)
}

// Title returns the document title text.
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}
