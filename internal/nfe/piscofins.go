package nfe

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

type decNull = decimal.NullDecimal

// pisCofinsVariant partitions the shared PIS/COFINS CST space: 1-2 taxed
// by aliquot, 4-9 non-taxed, 49-99 the residual "other" group.
func pisCofinsVariant(cst int) string {
	switch {
	case cst == 1 || cst == 2:
		return "aliq"
	case cst >= 4 && cst <= 9:
		return "nt"
	case cst >= 49 && cst <= 99:
		return "outr"
	}
	return ""
}

// buildPis emits the Q section.
func buildPis(item *model.Item) (*Node, error) {
	info := item.Pis
	wrapper := NewNode("PIS", "", nil)

	switch pisCofinsVariant(info.Cst) {
	case "aliq":
		wrapper.Append(aliquotNode("PISAliq", "Q02", info.Cst, info.VBC, info.PPis, info.VPis))
	case "nt":
		nt := NewNode("PISNT", "Q04", []Attr{{Name: "CST"}})
		nt.Set("CST", format.ZeroPad(info.Cst, 2))
		wrapper.Append(nt)
	case "outr":
		wrapper.Append(outrNode("PISOutr", "Q05", "Q07", info.Cst, info.VBC, info.PPis, info.VPis))
	default:
		return nil, model.NewUnsupportedVariant("PIS CST", info.Cst, item.Code)
	}
	return wrapper, nil
}

// buildCofins emits the S section, mirroring the PIS structure.
func buildCofins(item *model.Item) (*Node, error) {
	info := item.Cofins
	wrapper := NewNode("COFINS", "", nil)

	switch pisCofinsVariant(info.Cst) {
	case "aliq":
		wrapper.Append(aliquotNode("COFINSAliq", "S02", info.Cst, info.VBC, info.PCofins, info.VCofins))
	case "nt":
		nt := NewNode("COFINSNT", "S04", []Attr{{Name: "CST"}})
		nt.Set("CST", format.ZeroPad(info.Cst, 2))
		wrapper.Append(nt)
	case "outr":
		wrapper.Append(outrNode("COFINSOutr", "S05", "S07", info.Cst, info.VBC, info.PCofins, info.VCofins))
	default:
		return nil, model.NewUnsupportedVariant("COFINS CST", info.Cst, item.Code)
	}
	return wrapper, nil
}

func aliquotNode(tag, textTag string, cst int, vbc, rate, value decNull) *Node {
	n := NewNode(tag, textTag, []Attr{
		{Name: "CST"},
		{Name: "vBC", Default: "0"},
		{Name: rateName(tag), Default: "0"},
		{Name: valueName(tag), Default: "0"},
	})
	n.Set("CST", format.ZeroPad(cst, 2))
	if vbc.Valid {
		n.Set("vBC", vbc.Decimal)
	}
	if rate.Valid {
		// The aliquot is copied as given, not quantized.
		n.Set(rateName(tag), rate.Decimal.String())
	}
	if value.Valid {
		n.Set(valueName(tag), value.Decimal)
	}
	return n
}

// outrNode builds the residual variant. Its XML order is CST, vBC, rate,
// value; the text form splits into two lines, (CST, value) then
// (vBC, rate).
func outrNode(tag, headTag, calcTag string, cst int, vbc, rate, value decNull) *Node {
	n := aliquotNode(tag, "", cst, vbc, rate, value)
	n.textEmit = func(n *Node, b *strings.Builder) {
		writeLine(b, headTag, str(n.Get("CST")), str(n.Get(valueName(tag))))
		writeLine(b, calcTag, str(n.Get("vBC")), str(n.Get(rateName(tag))))
	}
	return n
}

func rateName(tag string) string {
	if strings.HasPrefix(tag, "PIS") {
		return "pPIS"
	}
	return "pCOFINS"
}

func valueName(tag string) string {
	if strings.HasPrefix(tag, "PIS") {
		return "vPIS"
	}
	return "vCOFINS"
}
