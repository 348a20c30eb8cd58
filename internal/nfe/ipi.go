package nfe

import (
	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// buildIpi emits the O section: the enquadramento wrapper plus either the
// taxed (IPITrib) or the non-taxed (IPINT) child selected by the CST.
func buildIpi(info *model.IpiInfo) *Node {
	wrapper := NewNode("IPI", "O", []Attr{
		{Name: "clEnq"},
		{Name: "CNPJProd"},
		{Name: "cSelo"},
		{Name: "qSelo"},
		{Name: "cEnq", Default: "999"},
	})
	if info.ClEnq != "" {
		wrapper.Set("clEnq", info.ClEnq)
	}
	if info.CnpjProd != "" {
		wrapper.Set("CNPJProd", info.CnpjProd)
	}
	if info.CSelo != "" {
		wrapper.Set("cSelo", info.CSelo)
	}
	if info.QSelo != nil {
		wrapper.Set("qSelo", *info.QSelo)
	}
	if info.CEnq != "" {
		wrapper.Set("cEnq", info.CEnq)
	}

	if info.Taxed() {
		wrapper.Append(buildIpiTaxed(info))
	} else {
		nt := NewNode("IPINT", "O08", []Attr{{Name: "CST"}})
		nt.Set("CST", format.ZeroPad(info.Cst, 2))
		wrapper.Append(nt)
	}
	return wrapper
}

func buildIpiTaxed(info *model.IpiInfo) *Node {
	trib := NewNode("IPITrib", "O07", []Attr{
		{Name: "CST"},
		{Name: "vIPI", Default: "0"},
	})
	trib.Set("CST", format.ZeroPad(info.Cst, 2))
	if info.VIpi.Valid {
		trib.Set("vIPI", info.VIpi.Decimal)
	}

	// The calculation sub-group is transparent in the XML form: its
	// elements inline into IPITrib.
	if info.CalcMode == model.IpiCalcUnit {
		unit := NewNode("", "O11", []Attr{
			{Name: "qUnid", Default: "0"},
			{Name: "vUnid", Default: "0"},
		})
		if info.QUnid.Valid {
			unit.Set("qUnid", format.Quantity(info.QUnid.Decimal))
		}
		if info.VUnid.Valid {
			unit.Set("vUnid", format.Quantity(info.VUnid.Decimal))
		}
		trib.Append(unit)
	} else {
		aliq := NewNode("", "O10", []Attr{
			{Name: "vBC", Default: "0"},
			{Name: "pIPI", Default: "0"},
		})
		if info.VBC.Valid {
			aliq.Set("vBC", info.VBC.Decimal)
		}
		if info.PIpi.Valid {
			aliq.Set("pIPI", info.PIpi.Decimal)
		}
		trib.Append(aliq)
	}
	return trib
}
