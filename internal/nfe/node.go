// Package nfe builds NF-e 3.10 documents: a uniform node model over the
// layout grammar, the section builders that populate it from an Operation,
// and the canonical XML and pipe-delimited text serializations.
package nfe

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// Attr declares one attribute of a node: an XML element name plus the
// default value it carries before the builders touch it. A nil default is
// absent: omitted from the XML and rendered as an empty field in the text
// form.
type Attr struct {
	Name    string
	Default interface{}
}

// Node is one element of the document tree. It renders as an XML element
// whose children are its scalar attributes in declaration order followed by
// the child nodes in insertion order, and as one pipe-delimited line when
// its text tag is non-empty. Nodes with an empty XML tag are transparent in
// the XML form; nodes with an empty text tag are invisible in the text
// form.
type Node struct {
	Tag     string
	TextTag string

	attrs  []*attrValue
	byName map[string]*attrValue

	children []*Node

	// xmlAttrs render as true XML attributes (det nItem, infNFe Id).
	xmlAttrs [][2]string

	// textEmit overrides the default one-line text form. The children
	// still recurse after it runs.
	textEmit func(n *Node, b *strings.Builder)
}

type attrValue struct {
	name    string
	value   interface{}
	text    string
	hasText bool
}

// NewNode snapshots the attribute declarations into a node.
func NewNode(tag, textTag string, attrs []Attr) *Node {
	n := &Node{
		Tag:     tag,
		TextTag: textTag,
		byName:  make(map[string]*attrValue, len(attrs)),
	}
	for _, a := range attrs {
		av := &attrValue{name: a.Name, value: a.Default}
		n.attrs = append(n.attrs, av)
		n.byName[a.Name] = av
	}
	return n
}

// Set assigns an attribute value. Setting a name outside the snapshot is a
// generator bug and panics with an invariant violation, which the document
// assembler converts into an error.
func (n *Node) Set(name string, v interface{}) *Node {
	av, ok := n.byName[name]
	if !ok {
		panic(model.NewInvariantViolation("node %s has no attribute %s", n.Tag, name))
	}
	av.value = v
	return n
}

// SetText assigns a text-form-only value for an attribute, leaving the XML
// rendering untouched. Used where the two grammars diverge, e.g. the
// issuer's ISENTO state registry.
func (n *Node) SetText(name, v string) *Node {
	av, ok := n.byName[name]
	if !ok {
		panic(model.NewInvariantViolation("node %s has no attribute %s", n.Tag, name))
	}
	av.text = v
	av.hasText = true
	return n
}

// Get returns the current value of an attribute, nil when absent.
func (n *Node) Get(name string) interface{} {
	if av, ok := n.byName[name]; ok {
		return av.value
	}
	return nil
}

// SetXMLAttr appends a true XML attribute to the element.
func (n *Node) SetXMLAttr(name, value string) *Node {
	n.xmlAttrs = append(n.xmlAttrs, [2]string{name, value})
	return n
}

// Append adds child nodes in insertion order.
func (n *Node) Append(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}

// Children returns the child list in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// XML renders the node into parent. Attribute values render through the
// scalar coercion; nil values are omitted.
func (n *Node) XML(parent *etree.Element) {
	el := parent
	if n.Tag != "" {
		el = parent.CreateElement(n.Tag)
		for _, a := range n.xmlAttrs {
			el.CreateAttr(a[0], a[1])
		}
	}
	for _, av := range n.attrs {
		if av.value == nil {
			continue
		}
		el.CreateElement(av.name).SetText(scalar(av.value))
	}
	for _, c := range n.children {
		c.XML(el)
	}
}

// Text renders the node's pipe-delimited form into b, then recurses into
// the children.
func (n *Node) Text(b *strings.Builder) {
	switch {
	case n.textEmit != nil:
		n.textEmit(n, b)
	case n.TextTag != "":
		b.WriteString(n.TextTag)
		b.WriteByte('|')
		for _, av := range n.attrs {
			b.WriteString(av.textValue())
			b.WriteByte('|')
		}
		b.WriteByte('\n')
	}
	for _, c := range n.children {
		c.Text(b)
	}
}

func (av *attrValue) textValue() string {
	if av.hasText {
		return av.text
	}
	if av.value == nil {
		return ""
	}
	return scalar(av.value)
}

// scalar coerces an attribute value to its serialized form. Decimals
// quantize to the default 2 fractional digits; 4-digit fields are
// pre-formatted by the builders.
func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case decimal.Decimal:
		return format.Amount(t)
	default:
		panic(model.NewInvariantViolation("unsupported attribute value type %T", v))
	}
}
