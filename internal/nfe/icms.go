package nfe

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// icmsVariant describes one ICMS subtree: its XML tag, its text-export tag
// and the attribute order it carries.
type icmsVariant struct {
	tag     string
	textTag string
	attrs   []string
}

var icmsVariants = map[string]icmsVariant{
	"ICMS00": {"ICMS00", "N02", []string{"orig", "CST", "modBC", "vBC", "pICMS", "vICMS"}},
	"ICMS10": {"ICMS10", "N03", []string{"orig", "CST", "modBC", "vBC", "pICMS", "vICMS", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST"}},
	"ICMS20": {"ICMS20", "N04", []string{"orig", "CST", "modBC", "pRedBC", "vBC", "pICMS", "vICMS"}},
	"ICMS30": {"ICMS30", "N05", []string{"orig", "CST", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST"}},
	"ICMS40": {"ICMS40", "N06", []string{"orig", "CST", "vICMS", "motDesICMS"}},
	"ICMS51": {"ICMS51", "N07", []string{"orig", "CST", "modBC", "pRedBC", "vBC", "pICMS", "vICMSOp", "pDif", "vICMSDif", "vICMS"}},
	"ICMS60": {"ICMS60", "N08", []string{"orig", "CST", "vBCSTRet", "vICMSSTRet"}},
	"ICMS70": {"ICMS70", "N09", []string{"orig", "CST", "modBC", "pRedBC", "vBC", "pICMS", "vICMS", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST"}},
	"ICMS90": {"ICMS90", "N10", []string{"orig", "CST", "modBC", "vBC", "pRedBC", "pICMS", "vICMS", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST"}},

	"ICMSSN101": {"ICMSSN101", "N10c", []string{"orig", "CSOSN", "pCredSN", "vCredICMSSN"}},
	"ICMSSN102": {"ICMSSN102", "N10d", []string{"orig", "CSOSN"}},
	"ICMSSN201": {"ICMSSN201", "N10e", []string{"orig", "CSOSN", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST", "pCredSN", "vCredICMSSN"}},
	"ICMSSN202": {"ICMSSN202", "N10f", []string{"orig", "CSOSN", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST"}},
	"ICMSSN500": {"ICMSSN500", "N10g", []string{"orig", "CSOSN", "vBCSTRet", "vICMSSTRet"}},
	"ICMSSN900": {"ICMSSN900", "N10h", []string{"orig", "CSOSN", "modBC", "vBC", "pRedBC", "pICMS", "vICMS", "modBCST", "pMVAST", "pRedBCST", "vBCST", "pICMSST", "vICMSST", "pCredSN", "vCredICMSSN"}},
}

// icmsCstTable routes normal-regime items (CRT 3) by their CST code.
var icmsCstTable = map[int]string{
	0:  "ICMS00",
	10: "ICMS10",
	20: "ICMS20",
	30: "ICMS30",
	40: "ICMS40",
	41: "ICMS40",
	50: "ICMS40",
	51: "ICMS51",
	60: "ICMS60",
	70: "ICMS70",
	90: "ICMS90",
}

// icmsCsosnTable routes Simples Nacional items (CRT 1 and 2) by CSOSN.
var icmsCsosnTable = map[int]string{
	101: "ICMSSN101",
	102: "ICMSSN102",
	103: "ICMSSN102",
	300: "ICMSSN102",
	400: "ICMSSN102",
	201: "ICMSSN201",
	202: "ICMSSN202",
	203: "ICMSSN202",
	500: "ICMSSN500",
	900: "ICMSSN900",
}

// buildIcms dispatches the item's ICMS subtree. Coupon-printed operations
// substitute a placeholder info (csosn 900, cst 90) that keeps only the
// origin, so Simples issuers land on ICMSSN900 and normal-regime issuers
// on ICMS90.
func buildIcms(item *model.Item, crt int, couponPrinted bool) (*Node, error) {
	info := item.Icms
	if couponPrinted {
		cst, csosn := 90, 900
		info = model.IcmsInfo{Orig: info.Orig, Cst: &cst, Csosn: &csosn}
	}

	simples := crt == model.CRTSimples || crt == model.CRTSimplesExcess
	var name string
	if simples {
		if info.Csosn == nil {
			return nil, model.NewDataInconsistency(item.Code, "icms-csosn", "Simples Nacional item lacks a CSOSN code")
		}
		var ok bool
		name, ok = icmsCsosnTable[*info.Csosn]
		if !ok {
			return nil, model.NewUnsupportedVariant("ICMS CSOSN", *info.Csosn, item.Code)
		}
	} else {
		if info.Cst == nil {
			return nil, model.NewDataInconsistency(item.Code, "icms-cst", "normal regime item lacks a CST code")
		}
		var ok bool
		name, ok = icmsCstTable[*info.Cst]
		if !ok {
			return nil, model.NewUnsupportedVariant("ICMS CST", *info.Cst, item.Code)
		}
	}

	variant := icmsVariants[name]
	node := newIcmsVariantNode(variant)
	for _, attr := range variant.attrs {
		if v := icmsField(&info, name, attr); v != nil {
			node.Set(attr, v)
		}
	}

	wrapper := NewNode("ICMS", "", nil)
	wrapper.Append(node)
	return wrapper, nil
}

// newIcmsVariantNode snapshots a variant's attribute order. Value and
// percentage fields default to "0"; modality and motive fields stay
// absent until set.
func newIcmsVariantNode(variant icmsVariant) *Node {
	attrs := make([]Attr, 0, len(variant.attrs))
	for _, name := range variant.attrs {
		var def interface{}
		if strings.HasPrefix(name, "v") || strings.HasPrefix(name, "p") {
			def = "0"
		}
		attrs = append(attrs, Attr{Name: name, Default: def})
	}
	return NewNode(variant.tag, variant.textTag, attrs)
}

// icmsField maps a variant attribute to the same-named IcmsInfo field.
// Decimals quantize to 2 digits; CST/CSOSN zero-pad to at least 2 digits,
// and ICMS00 forces the literal "00" so a scalar 0 is never rendered.
func icmsField(info *model.IcmsInfo, variantName, attr string) interface{} {
	switch attr {
	case "orig":
		return info.Orig
	case "CST":
		if variantName == "ICMS00" {
			return "00"
		}
		return format.ZeroPad(*info.Cst, 2)
	case "CSOSN":
		return format.ZeroPad(*info.Csosn, 2)
	case "modBC":
		return optInt(info.ModBC)
	case "modBCST":
		return optInt(info.ModBCS)
	case "pRedBC":
		return optDec(info.PRedBC)
	case "vBC":
		return optDec(info.VBC)
	case "pICMS":
		return optDec(info.PIcms)
	case "vICMS":
		return optDec(info.VIcms)
	case "pMVAST":
		return optDec(info.PMvaST)
	case "pRedBCST":
		return optDec(info.PRedBCS)
	case "vBCST":
		return optDec(info.VBCST)
	case "pICMSST":
		return optDec(info.PIcmsST)
	case "vICMSST":
		return optDec(info.VIcmsST)
	case "pCredSN":
		return optDec(info.PCredSN)
	case "vCredICMSSN":
		return optDec(info.VCredIcmsSN)
	case "vBCSTRet":
		return optDec(info.VBCSTRet)
	case "vICMSSTRet":
		return optDec(info.VIcmsSTRet)
	case "vICMSOp":
		return optDec(info.VIcmsOp)
	case "pDif":
		return optDec(info.PDif)
	case "vICMSDif":
		return optDec(info.VIcmsDif)
	case "motDesICMS":
		return optInt(info.MotDesIcms)
	}
	panic(model.NewInvariantViolation("no ICMS field mapping for %s", attr))
}

func optInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optDec(v decimal.NullDecimal) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Decimal
}
