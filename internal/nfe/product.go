package nfe

import (
	"strconv"
	"strings"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// Barcode lengths accepted by the layout (EAN-8/UPC-A/EAN-13/ITF-14).
func validBarcode(code string) bool {
	switch len(code) {
	case 8, 12, 13, 14:
		return true
	}
	return false
}

// buildDetail emits one H/I section: the det wrapper, the product group
// and the tax block. index counts from 1 in item insertion order.
func buildDetail(item *model.Item, index int, crt int, couponPrinted bool) (*Node, error) {
	det := NewNode("det", "", nil)
	det.SetXMLAttr("nItem", strconv.Itoa(index))
	det.textEmit = func(n *Node, b *strings.Builder) {
		writeLine(b, "H", strconv.Itoa(index), "")
	}

	det.Append(buildProduct(item))

	tax, err := buildTaxBlock(item, crt, couponPrinted)
	if err != nil {
		return nil, err
	}
	det.Append(tax)
	return det, nil
}

func buildProduct(item *model.Item) *Node {
	n := NewNode("prod", "I", []Attr{
		{Name: "cProd"},
		{Name: "cEAN"},
		{Name: "xProd"},
		{Name: "NCM"},
		{Name: "EXTIPI"},
		{Name: "genero"},
		{Name: "CFOP"},
		{Name: "uCom", Default: "un"},
		{Name: "qCom"},
		{Name: "vUnCom"},
		{Name: "vProd"},
		{Name: "cEANTrib"},
		{Name: "uTrib", Default: "un"},
		{Name: "qTrib"},
		{Name: "vUnTrib"},
		{Name: "vFrete", Default: ""},
		{Name: "vSeg", Default: ""},
		{Name: "vDesc", Default: ""},
		{Name: "vOutro", Default: ""},
		{Name: "indTot", Default: "1"},
	})

	n.Set("cProd", item.Code)
	if validBarcode(item.Barcode) {
		n.Set("cEAN", item.Barcode)
		n.Set("cEANTrib", item.Barcode)
	}
	n.Set("xProd", item.Description)
	if p := item.Product; p != nil {
		if p.NCM != "" {
			n.Set("NCM", p.NCM)
		}
		if p.ExTipi != "" {
			n.Set("EXTIPI", p.ExTipi)
		}
		if p.Genero != "" {
			n.Set("genero", p.Genero)
		}
	}
	n.Set("CFOP", item.CFOP)
	if item.UnitDescription != "" {
		n.Set("uCom", item.UnitDescription)
		n.Set("uTrib", item.UnitDescription)
	}
	// Commercial and tributable quartets carry the same values; quantity
	// and unit price quantize to 4 digits, the line total to 2.
	qty := format.Quantity(item.Quantity)
	price := format.Quantity(item.Price)
	n.Set("qCom", qty)
	n.Set("vUnCom", price)
	n.Set("vProd", format.Amount(item.Total()))
	n.Set("qTrib", qty)
	n.Set("vUnTrib", price)
	return n
}
