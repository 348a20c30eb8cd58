package nfe

import (
	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// buildTransport emits the X section: the freight modality, the optional
// transporter and one volume per item whose product has a positive unit
// weight.
func buildTransport(op *model.Operation) *Node {
	transp := NewNode("transp", "X", []Attr{
		{Name: "modFrete", Default: "1"},
	})

	if op.Transporter != nil {
		transp.Append(buildCarrier(op.Transporter))
	}
	for i := range op.Items {
		if vol := buildVolume(&op.Items[i]); vol != nil {
			transp.Append(vol)
		}
	}
	return transp
}

// buildVolume emits one X26 group, nil for items without a weighted
// product. qVol is the quantity rounded up to whole volumes.
func buildVolume(item *model.Item) *Node {
	if item.Product == nil || !item.Product.Weight.IsPositive() {
		return nil
	}
	n := NewNode("vol", "X26", []Attr{
		{Name: "qVol"},
		{Name: "esp"},
		{Name: "marca"},
		{Name: "nVol"},
		{Name: "pesoL"},
		{Name: "pesoB"},
	})
	n.Set("qVol", int(item.Quantity.Ceil().IntPart()))
	if item.UnitDescription != "" {
		n.Set("esp", item.UnitDescription)
	}
	gross := item.Product.Weight.Mul(item.Quantity)
	n.Set("pesoL", format.Weight(gross))
	n.Set("pesoB", format.Weight(gross))
	return n
}
