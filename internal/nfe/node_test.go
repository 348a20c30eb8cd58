package nfe_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfe-emitter/internal/nfe"
)

func renderXML(t *testing.T, n *nfe.Node) string {
	t.Helper()
	doc := etree.NewDocument()
	root := doc.CreateElement("root")
	n.XML(root)
	out, err := doc.WriteToString()
	require.NoError(t, err)
	return out
}

func renderText(n *nfe.Node) string {
	var b strings.Builder
	n.Text(&b)
	return b.String()
}

func TestNode_XMLAttributeOrderAndOmission(t *testing.T) {
	n := nfe.NewNode("fat", "Y02", []nfe.Attr{
		{Name: "nFat"},
		{Name: "vOrig", Default: "0"},
		{Name: "vDesc"},
		{Name: "vLiq"},
	})
	n.Set("nFat", "123")
	n.Set("vLiq", decimal.RequireFromString("10.5"))

	out := renderXML(t, n)
	assert.Contains(t, out, "<fat><nFat>123</nFat><vOrig>0</vOrig><vLiq>10.50</vLiq></fat>")
	// Nil attributes are omitted entirely.
	assert.NotContains(t, out, "vDesc")
}

func TestNode_TextJoinsAllAttributes(t *testing.T) {
	n := nfe.NewNode("fat", "Y02", []nfe.Attr{
		{Name: "nFat"},
		{Name: "vDesc"},
		{Name: "vLiq"},
	})
	n.Set("nFat", "123")
	n.Set("vLiq", "99.00")

	// Absent attributes render as empty fields, not omitted.
	assert.Equal(t, "Y02|123||99.00|\n", renderText(n))
}

func TestNode_EmptyTextTagInvisible(t *testing.T) {
	parent := nfe.NewNode("wrapper", "", nil)
	child := nfe.NewNode("dup", "Y07", []nfe.Attr{{Name: "nDup"}})
	child.Set("nDup", "1")
	parent.Append(child)

	// The wrapper contributes no line; the child still renders.
	assert.Equal(t, "Y07|1|\n", renderText(parent))
}

func TestNode_TransparentXMLTag(t *testing.T) {
	parent := nfe.NewNode("emit", "C", []nfe.Attr{{Name: "xNome"}})
	parent.Set("xNome", "ACME")
	tail := nfe.NewNode("", "", []nfe.Attr{{Name: "IE"}})
	tail.Set("IE", "123456")
	parent.Append(tail)

	out := renderXML(t, parent)
	// The tail's attributes inline into the parent element.
	assert.Contains(t, out, "<emit><xNome>ACME</xNome><IE>123456</IE></emit>")
}

func TestNode_XMLEscaping(t *testing.T) {
	n := nfe.NewNode("prod", "I", []nfe.Attr{{Name: "xProd"}})
	n.Set("xProd", "CABO P&B <1m>")

	out := renderXML(t, n)
	assert.Contains(t, out, "CABO P&amp;B &lt;1m&gt;")
}

func TestNode_SetTextOverridesTextOnly(t *testing.T) {
	n := nfe.NewNode("emit", "C", []nfe.Attr{{Name: "IE"}})
	n.SetText("IE", "ISENTO")

	assert.Equal(t, "C|ISENTO|\n", renderText(n))
	assert.NotContains(t, renderXML(t, n), "IE")
}

func TestNode_ChildrenKeepInsertionOrder(t *testing.T) {
	parent := nfe.NewNode("cobr", "Y", nil)
	for _, id := range []string{"1", "2", "3"} {
		dup := nfe.NewNode("dup", "Y07", []nfe.Attr{{Name: "nDup"}})
		dup.Set("nDup", id)
		parent.Append(dup)
	}

	text := renderText(parent)
	xml := renderXML(t, parent)
	assert.Equal(t, "Y|\nY07|1|\nY07|2|\nY07|3|\n", text)
	assert.Less(t, strings.Index(xml, ">1<"), strings.Index(xml, ">2<"))
	assert.Less(t, strings.Index(xml, ">2<"), strings.Index(xml, ">3<"))
}

func TestNode_SetUnknownAttributePanics(t *testing.T) {
	n := nfe.NewNode("ide", "B", []nfe.Attr{{Name: "cUF"}})
	assert.Panics(t, func() {
		n.Set("nope", "1")
	})
}
