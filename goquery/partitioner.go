// Package goquery implements HTML partitioning and link discovery using
// the goquery library.
package goquery

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docrag"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ docrag.Partitioner = (*Partitioner)(nil)

// DefaultSkipSelectors are removed from the page before partitioning.
var DefaultSkipSelectors = []string{
	"head", "script", "style", "noscript", "template", "svg", "iframe",
	"nav", "[role=navigation]", "[aria-hidden=true]",
}

// Partitioner splits HTML pages into typed elements in document order.
type Partitioner struct {
	// Extractor, when set, reduces the page to its main content first.
	// Pages it cannot handle are partitioned whole.
	Extractor docrag.Extractor

	// Converter, when set, renders tables as Markdown. Otherwise cells are
	// joined with " | ", one row per line.
	Converter docrag.Converter

	// SkipSelectors are CSS selectors removed before walking the page.
	SkipSelectors []string
}

// NewPartitioner returns a Partitioner that skips DefaultSkipSelectors.
func NewPartitioner() *Partitioner {
	return &Partitioner{SkipSelectors: DefaultSkipSelectors}
}

// Partition reads an HTML page and returns its elements. Whitespace inside
// elements is collapsed except in code blocks. Empty elements are dropped.
func (p *Partitioner) Partition(r io.Reader, language string) ([]docrag.Element, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	src := string(raw)
	if p.Extractor != nil {
		if res, err := p.Extractor.Extract(src, language); err == nil && strings.TrimSpace(res.ContentHTML) != "" {
			src = res.ContentHTML
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, docrag.Errorf(docrag.EINVALID, "failed to parse HTML: %v", err)
	}
	if len(p.SkipSelectors) > 0 {
		doc.Find(strings.Join(p.SkipSelectors, ", ")).Remove()
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	w := &walker{doc: doc, converter: p.Converter}
	for _, n := range root.Nodes {
		w.walkChildren(n)
	}
	w.flush()
	return w.elements, nil
}

type walker struct {
	doc       *goquery.Document
	converter docrag.Converter
	elements  []docrag.Element
	loose     strings.Builder
}

func (w *walker) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.loose.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		w.walkChildren(n)
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level, _ := strconv.Atoi(n.Data[1:])
		w.emit(docrag.RoleTitle, collapse(textOf(n)), level)
	case atom.P, atom.Dt, atom.Dd, atom.Figcaption, atom.Summary, atom.Caption:
		w.emit(docrag.RoleNarrativeText, collapse(textOf(n)), 0)
	case atom.Li:
		w.listItem(n)
	case atom.Table:
		w.emit(docrag.RoleTable, w.table(n), 0)
	case atom.Pre:
		w.emit(docrag.RoleCode, strings.Trim(textOf(n), "\n"), 0)
	case atom.Br:
		w.loose.WriteByte(' ')
	default:
		if isBlock(n.DataAtom) {
			w.flush()
			w.walkChildren(n)
			w.flush()
			return
		}
		w.walkChildren(n)
	}
}

// listItem emits the item's own text, then walks nested lists so their
// items follow as separate elements.
func (w *walker) listItem(n *html.Node) {
	var own strings.Builder
	var nested []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			nested = append(nested, c)
			continue
		}
		own.WriteString(textOf(c))
	}
	w.emit(docrag.RoleListItem, collapse(own.String()), 0)
	for _, c := range nested {
		w.walk(c)
	}
}

func (w *walker) table(n *html.Node) string {
	if w.converter != nil {
		if outer, err := goquery.OuterHtml(w.doc.FindNodes(n)); err == nil {
			if md, err := w.converter.Convert(outer); err == nil && md != "" {
				return md
			}
		}
	}

	var rows []string
	w.doc.FindNodes(n).Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, collapse(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	})
	return strings.Join(rows, "\n")
}

func (w *walker) emit(role docrag.ElementRole, text string, level int) {
	w.flush()
	if strings.TrimSpace(text) == "" {
		return
	}
	w.elements = append(w.elements, docrag.Element{Role: role, Text: text, Level: level})
}

// flush turns accumulated loose text into a Text element.
func (w *walker) flush() {
	text := collapse(w.loose.String())
	w.loose.Reset()
	if text != "" {
		w.elements = append(w.elements, docrag.Element{Role: docrag.RoleText, Text: text})
	}
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Section, atom.Article, atom.Main, atom.Header, atom.Footer,
		atom.Aside, atom.Ul, atom.Ol, atom.Dl, atom.Blockquote, atom.Figure,
		atom.Details, atom.Form, atom.Fieldset, atom.Hr, atom.Address, atom.Body, atom.Html:
		return true
	}
	return false
}
