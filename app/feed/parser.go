package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/encoding/htmlindex"
)

const DefaultTitle = "No Title"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run extracts items from a raw feed document in document order. Missing
// fields are filled from a fixed default table rather than failing the item.
func (p *Parser) Run(data []byte, profile *Profile) ([]RawItem, error) {
	switch profile.Format {
	case FormatAtom:
		return p.runGofeed(data, profile)
	default:
		return p.runXML(data, profile)
	}
}

func (p *Parser) runXML(data []byte, profile *Profile) ([]RawItem, error) {
	path, err := compileItemPath(profile.ItemPath)
	if err != nil {
		return nil, &ParseError{Provider: profile.ID, Err: err}
	}

	root, err := decodeTree(data)
	if err != nil {
		return nil, &ParseError{Provider: profile.ID, Err: err}
	}

	nodes := path.selectFrom(root)
	items := make([]RawItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, p.normalizeNode(n, profile))
	}

	return items, nil
}

func (p *Parser) normalizeNode(n *xmlNode, profile *Profile) RawItem {
	space := n.XMLName.Space

	return RawItem{
		Title:       cmp.Or(n.childText(space, "title"), DefaultTitle),
		Link:        n.childText(space, "link"),
		PubDate:     n.childText(space, "pubDate"),
		Description: n.childText(space, "description"),
		Source:      n.childText(space, "source"),
		GUID:        n.childText(space, "guid"),
		MediaURL:    n.namespacedAttr(profile.Namespaces, "content", "url"),
		MediaCredit: n.namespacedText(profile.Namespaces, "credit"),
	}
}

func (p *Parser) runGofeed(data []byte, profile *Profile) ([]RawItem, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Provider: profile.ID, Err: err}
	}

	items := make([]RawItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.normalizeItem(item))
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) RawItem {
	normalized := RawItem{
		Title:       cmp.Or(strings.TrimSpace(item.Title), DefaultTitle),
		Link:        item.Link,
		PubDate:     cmp.Or(item.Published, item.Updated),
		Description: item.Description,
		GUID:        item.GUID,
	}

	if media, ok := item.Extensions["media"]; ok {
		if contents := media["content"]; len(contents) > 0 {
			normalized.MediaURL = contents[0].Attrs["url"]
		}
		if credits := media["credit"]; len(credits) > 0 {
			normalized.MediaCredit = strings.TrimSpace(credits[0].Value)
		}
	}

	if normalized.MediaURL == "" && item.Image != nil {
		normalized.MediaURL = item.Image.URL
	}

	return normalized
}

type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func decodeTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %s: %w", label, err)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}

	return &root, nil
}

// childText returns the trimmed text of the first child named local that is
// either un-namespaced or shares the item's own namespace.
func (n *xmlNode) childText(space, local string) string {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local != local {
			continue
		}
		if c.XMLName.Space == "" || c.XMLName.Space == space {
			return strings.TrimSpace(c.Text)
		}
	}
	return ""
}

func (n *xmlNode) namespacedText(namespaces []string, local string) string {
	for _, ns := range namespaces {
		if c := n.namespacedChild(ns, local); c != nil {
			if text := strings.TrimSpace(c.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func (n *xmlNode) namespacedAttr(namespaces []string, local, attr string) string {
	for _, ns := range namespaces {
		if c := n.namespacedChild(ns, local); c != nil {
			for _, a := range c.Attrs {
				if a.Name.Local == attr && a.Value != "" {
					return a.Value
				}
			}
		}
	}
	return ""
}

func (n *xmlNode) namespacedChild(ns, local string) *xmlNode {
	if ns == "" {
		return nil
	}
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Space == ns && c.XMLName.Local == local {
			return c
		}
	}
	return nil
}

type pathStep struct {
	name       string
	descendant bool
}

type itemPath []pathStep

// compileItemPath accepts the small path subset used by provider profiles:
// "./channel/item", "channel/item", ".//item" and "//item".
func compileItemPath(expr string) (itemPath, error) {
	rest := strings.TrimSpace(expr)
	rest = strings.TrimPrefix(rest, ".")
	if rest == "" {
		return nil, fmt.Errorf("item path is empty")
	}

	var steps itemPath
	for rest != "" {
		descendant := false
		switch {
		case strings.HasPrefix(rest, "//"):
			descendant = true
			rest = rest[2:]
		case strings.HasPrefix(rest, "/"):
			rest = rest[1:]
		}

		name := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			name, rest = rest[:i], rest[i:]
		} else {
			rest = ""
		}

		if name == "" || strings.ContainsAny(name, "@*[]()=. ") {
			return nil, fmt.Errorf("invalid item path %q", expr)
		}
		steps = append(steps, pathStep{name: name, descendant: descendant})
	}

	return steps, nil
}

func (p itemPath) selectFrom(root *xmlNode) []*xmlNode {
	current := []*xmlNode{root}
	for _, step := range p {
		var next []*xmlNode
		for _, n := range current {
			if step.descendant {
				next = n.appendDescendants(next, step.name)
			} else {
				for i := range n.Nodes {
					if n.Nodes[i].XMLName.Local == step.name {
						next = append(next, &n.Nodes[i])
					}
				}
			}
		}
		current = next
	}
	return current
}

func (n *xmlNode) appendDescendants(dst []*xmlNode, name string) []*xmlNode {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == name {
			dst = append(dst, c)
			continue
		}
		dst = c.appendDescendants(dst, name)
	}
	return dst
}
