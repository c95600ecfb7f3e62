package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/aretw0/umlweb/pkg/domain"
)

// element is a minimal DOM node. Names carry the resolved namespace URI in
// Space, so lookups never depend on the prefix a document chose.
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*element
	text     strings.Builder
}

// parse reads a complete document and returns its root element.
func parse(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	// Hand-edited documents may declare a legacy encoding such as ISO-8859-1.
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: more than one root element", domain.ErrInvalidDocument)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside the root element", domain.ErrInvalidDocument)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", domain.ErrInvalidDocument)
	}
	return root, nil
}

// attr returns the value of the attribute (space, local).
// An empty space selects unprefixed attributes.
func (e *element) attr(space, local string) string {
	for _, a := range e.attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// hasAttr reports whether the attribute is present with a non-empty value.
func (e *element) hasAttr(space, local string) bool {
	return e.attr(space, local) != ""
}

// ownText returns the element's direct character data, trimmed.
// Text inside child elements is not included.
func (e *element) ownText() string {
	return strings.TrimSpace(e.text.String())
}

// descendants returns every element below e matching match, in document order.
func (e *element) descendants(match func(xml.Name) bool) []*element {
	var out []*element
	var walk func(*element)
	walk = func(n *element) {
		for _, c := range n.children {
			if match(c.name) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// self is like descendants but also considers e itself.
func (e *element) self(match func(xml.Name) bool) []*element {
	if match(e.name) {
		return append([]*element{e}, e.descendants(match)...)
	}
	return e.descendants(match)
}

// core matches a core-layer element: any namespace except the extension one.
func core(local string) func(xml.Name) bool {
	return func(n xml.Name) bool {
		return n.Local == local && n.Space != domain.ExtNamespace
	}
}

// ext matches an extension-layer element by namespace URI.
func ext(local string) func(xml.Name) bool {
	return func(n xml.Name) bool {
		return n.Local == local && n.Space == domain.ExtNamespace
	}
}
