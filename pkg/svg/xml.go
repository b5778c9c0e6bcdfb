package svg

import (
	"bytes"
	"html"
	"io"
)

// Node is anything that can be written into a document.
type Node interface {
	writeTo(buf *bytes.Buffer)
}

// Attr is a single name="value" pair. Values are escaped on output.
type Attr struct {
	Name, Value string
}

// Element is a tagged XML element with ordered attributes and children.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// NewElement creates an element with the given tag and attributes.
func NewElement(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing one of the same name
// in place so attribute order stays stable.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{name, value})
	return e
}

// Append adds children in order.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// String serializes the element and its subtree.
func (e *Element) String() string {
	var buf bytes.Buffer
	e.writeTo(&buf)
	return buf.String()
}

// WriteTo implements io.WriterTo.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	e.writeTo(&buf)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (e *Element) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(a.Value))
		buf.WriteByte('"')
	}
	if len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range e.Children {
		c.writeTo(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.Tag)
	buf.WriteByte('>')
}

// Raw is a pre-escaped markup fragment written verbatim.
type Raw string

func (r Raw) writeTo(buf *bytes.Buffer) { buf.WriteString(string(r)) }

// Text is character data, escaped on output.
type Text string

func (t Text) writeTo(buf *bytes.Buffer) { buf.WriteString(html.EscapeString(string(t))) }
