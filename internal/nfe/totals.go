package nfe

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/nfe-emitter/internal/model"
)

// Totals accumulates the item-level values summed into the W02 group.
// Absent fields coerce to zero.
type Totals struct {
	BaseICMS   decimal.Decimal
	ICMS       decimal.Decimal
	BaseICMSST decimal.Decimal
	ICMSST     decimal.Decimal
	IPI        decimal.Decimal
	Products   decimal.Decimal
}

// Add folds one item into the running totals.
func (t *Totals) Add(item *model.Item) {
	t.BaseICMS = t.BaseICMS.Add(item.Icms.VBC.Decimal)
	t.ICMS = t.ICMS.Add(item.Icms.VIcms.Decimal)
	t.BaseICMSST = t.BaseICMSST.Add(item.Icms.VBCST.Decimal)
	t.ICMSST = t.ICMSST.Add(item.Icms.VIcmsST.Decimal)
	t.IPI = t.IPI.Add(item.Ipi.VIpi.Decimal)
	t.Products = t.Products.Add(item.Total())
}

// Invoice is the document total: products plus ICMS-ST plus IPI, less the
// discount. Per-item discounts are already folded into prices, so the
// discount passed here is always zero in this core.
func (t *Totals) Invoice(discount decimal.Decimal) decimal.Decimal {
	return t.Products.Add(t.ICMSST).Add(t.IPI).Sub(discount)
}

// buildTotals emits the W section.
func buildTotals(t *Totals) *Node {
	total := NewNode("total", "W", nil)

	icmsTot := NewNode("ICMSTot", "W02", []Attr{
		{Name: "vBC"},
		{Name: "vICMS"},
		{Name: "vICMSDeson", Default: "0"},
		{Name: "vBCST"},
		{Name: "vST"},
		{Name: "vProd"},
		{Name: "vFrete", Default: "0"},
		{Name: "vSeg", Default: "0"},
		{Name: "vDesc", Default: "0"},
		{Name: "vII", Default: "0"},
		{Name: "vIPI"},
		{Name: "vPIS", Default: "0"},
		{Name: "vCOFINS", Default: "0"},
		{Name: "vOutro", Default: "0"},
		{Name: "vNF"},
	})
	icmsTot.Set("vBC", t.BaseICMS)
	icmsTot.Set("vICMS", t.ICMS)
	icmsTot.Set("vBCST", t.BaseICMSST)
	icmsTot.Set("vST", t.ICMSST)
	icmsTot.Set("vProd", t.Products)
	icmsTot.Set("vIPI", t.IPI)
	icmsTot.Set("vNF", t.Invoice(decimal.Zero))

	total.Append(icmsTot)
	return total
}
