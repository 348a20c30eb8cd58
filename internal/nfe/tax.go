package nfe

import (
	"strings"

	"github.com/rezonia/nfe-emitter/internal/model"
)

// buildTaxBlock emits the M section wrapping the per-item ICMS, IPI, PIS
// and COFINS subtrees. Its text form writes the M| and N| sentinels before
// the variant lines.
func buildTaxBlock(item *model.Item, crt int, couponPrinted bool) (*Node, error) {
	imposto := NewNode("imposto", "", nil)
	imposto.textEmit = func(n *Node, b *strings.Builder) {
		writeLine(b, "M")
		writeLine(b, "N")
	}

	icms, err := buildIcms(item, crt, couponPrinted)
	if err != nil {
		return nil, err
	}
	pis, err := buildPis(item)
	if err != nil {
		return nil, err
	}
	cofins, err := buildCofins(item)
	if err != nil {
		return nil, err
	}

	imposto.Append(icms, buildIpi(&item.Ipi), pis, cofins)
	return imposto, nil
}
