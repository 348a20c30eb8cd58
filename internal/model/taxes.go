package model

import "github.com/shopspring/decimal"

// IcmsInfo holds the per-item ICMS configuration. Exactly one of Cst
// (normal regime) or Csosn (Simples Nacional) drives dispatch; the
// calculation fields are optional and absent fields serialize to the
// attribute defaults.
type IcmsInfo struct {
	Orig   int  `json:"orig"`
	Cst    *int `json:"cst,omitempty"`
	Csosn  *int `json:"csosn,omitempty"`
	ModBC  *int `json:"mod_bc,omitempty"`
	ModBCS *int `json:"mod_bc_st,omitempty"`

	PRedBC  decimal.NullDecimal `json:"p_red_bc,omitempty"`
	VBC     decimal.NullDecimal `json:"v_bc,omitempty"`
	PIcms   decimal.NullDecimal `json:"p_icms,omitempty"`
	VIcms   decimal.NullDecimal `json:"v_icms,omitempty"`
	VBCST   decimal.NullDecimal `json:"v_bc_st,omitempty"`
	PIcmsST decimal.NullDecimal `json:"p_icms_st,omitempty"`
	VIcmsST decimal.NullDecimal `json:"v_icms_st,omitempty"`
	PMvaST  decimal.NullDecimal `json:"p_mva_st,omitempty"`
	PRedBCS decimal.NullDecimal `json:"p_red_bc_st,omitempty"`

	PCredSN     decimal.NullDecimal `json:"p_cred_sn,omitempty"`
	VCredIcmsSN decimal.NullDecimal `json:"v_cred_icms_sn,omitempty"`
	VBCSTRet    decimal.NullDecimal `json:"v_bc_st_ret,omitempty"`
	VIcmsSTRet  decimal.NullDecimal `json:"v_icms_st_ret,omitempty"`

	// Rarer fields used by the deferral and desoneration variants.
	VIcmsOp     decimal.NullDecimal `json:"v_icms_op,omitempty"`
	PDif        decimal.NullDecimal `json:"p_dif,omitempty"`
	VIcmsDif    decimal.NullDecimal `json:"v_icms_dif,omitempty"`
	VIcmsSTDeso decimal.NullDecimal `json:"v_icms_st_deson,omitempty"`
	MotDesIcms  *int                `json:"mot_des_icms,omitempty"`
	UFST        string              `json:"ufst,omitempty"`
	PBCOp       decimal.NullDecimal `json:"p_bc_op,omitempty"`
	VBCSTDest   decimal.NullDecimal `json:"v_bc_st_dest,omitempty"`
	VIcmsSTDest decimal.NullDecimal `json:"v_icms_st_dest,omitempty"`
}

// IPI calculation modes.
const (
	IpiCalcAliquot = "aliquota"
	IpiCalcUnit    = "unidade"
)

// IpiInfo holds the per-item IPI configuration.
type IpiInfo struct {
	Cst      int    `json:"cst"`
	CalcMode string `json:"calc_mode,omitempty"`

	ClEnq    string `json:"cl_enq,omitempty"`
	CnpjProd string `json:"cnpj_prod,omitempty"`
	CSelo    string `json:"c_selo,omitempty"`
	QSelo    *int   `json:"q_selo,omitempty"`
	CEnq     string `json:"c_enq,omitempty"`

	VBC   decimal.NullDecimal `json:"v_bc,omitempty"`
	PIpi  decimal.NullDecimal `json:"p_ipi,omitempty"`
	QUnid decimal.NullDecimal `json:"q_unid,omitempty"`
	VUnid decimal.NullDecimal `json:"v_unid,omitempty"`
	VIpi  decimal.NullDecimal `json:"v_ipi,omitempty"`
}

// Taxed reports whether the CST selects the taxed IPI variant.
func (i *IpiInfo) Taxed() bool {
	switch i.Cst {
	case 0, 49, 50, 99:
		return true
	}
	return false
}

// PisInfo holds the per-item PIS configuration.
type PisInfo struct {
	Cst  int                 `json:"cst"`
	VBC  decimal.NullDecimal `json:"v_bc,omitempty"`
	PPis decimal.NullDecimal `json:"p_pis,omitempty"`
	VPis decimal.NullDecimal `json:"v_pis,omitempty"`
}

// CofinsInfo holds the per-item COFINS configuration.
type CofinsInfo struct {
	Cst     int                 `json:"cst"`
	VBC     decimal.NullDecimal `json:"v_bc,omitempty"`
	PCofins decimal.NullDecimal `json:"p_cofins,omitempty"`
	VCofins decimal.NullDecimal `json:"v_cofins,omitempty"`
}
