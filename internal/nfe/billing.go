package nfe

import (
	"strconv"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// buildBilling emits the Y section: the invoice summary plus one
// duplicata per payment.
func buildBilling(op *model.Operation) *Node {
	cobr := NewNode("cobr", "Y", nil)

	fat := NewNode("fat", "Y02", []Attr{
		{Name: "nFat"},
		{Name: "vOrig"},
		{Name: "vDesc"},
		{Name: "vLiq"},
	})
	fat.Set("nFat", strconv.Itoa(op.Identifier))
	fat.Set("vOrig", op.InvoiceSubtotal)
	if op.DiscountValue.IsPositive() {
		fat.Set("vDesc", op.DiscountValue)
	}
	fat.Set("vLiq", op.InvoiceTotal)
	cobr.Append(fat)

	for _, payment := range op.Payments {
		dup := NewNode("dup", "Y07", []Attr{
			{Name: "nDup"},
			{Name: "dVenc"},
			{Name: "vDup"},
		})
		dup.Set("nDup", strconv.Itoa(payment.Identifier))
		dup.Set("dVenc", format.Date(payment.DueDate))
		dup.Set("vDup", payment.Value)
		cobr.Append(dup)
	}
	return cobr
}
