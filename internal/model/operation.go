package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind distinguishes the commercial operations a document can
// describe.
type OperationKind string

const (
	KindSale         OperationKind = "sale"
	KindReturnedSale OperationKind = "returned_sale"
	KindTransfer     OperationKind = "transfer"
)

// Tax regimes (CRT). 1 and 2 are Simples Nacional, 3 is the normal regime.
const (
	CRTSimples       = 1
	CRTSimplesExcess = 2
	CRTNormal        = 3
)

// Operation is the completed commercial operation a document is generated
// from. All fields are read-only during generation except Invoice, which
// receives the nonce and the access key after assembly.
type Operation struct {
	Kind        OperationKind `json:"kind"`
	Identifier  int           `json:"identifier"`
	Branch      Branch        `json:"branch"`
	Recipient   Party         `json:"recipient"`
	Items       []Item        `json:"items"`
	Invoice     *Invoice      `json:"invoice"`
	Payments    []Payment     `json:"payments,omitempty"`
	Transporter *Party        `json:"transporter,omitempty"`

	// Nature is the operation nature (natOp), truncated to 60 chars on
	// emission. Empty means "Venda".
	Nature string `json:"nature,omitempty"`

	DiscountValue   decimal.Decimal `json:"discount_value"`
	InvoiceTotal    decimal.Decimal `json:"invoice_total"`
	InvoiceSubtotal decimal.Decimal `json:"invoice_subtotal"`

	Comments []string `json:"comments,omitempty"`

	// CouponID is set when the operation was also printed on a fiscal
	// coupon; it forces the placeholder ICMS subtree per item.
	CouponID *int     `json:"coupon_id,omitempty"`
	Ecf      *EcfInfo `json:"ecf,omitempty"`

	EmissionDate time.Time  `json:"emission_date"`
	DispatchDate *time.Time `json:"dispatch_date,omitempty"`
}

// CouponPrinted reports whether the operation was cross-referenced from a
// fiscal coupon.
func (o *Operation) CouponPrinted() bool {
	return o.CouponID != nil
}

// Invoice is the mutable invoice record the generator writes back onto.
type Invoice struct {
	Number      int    `json:"number"`
	Series      int    `json:"series"`
	CNF         string `json:"cnf,omitempty"`
	Key         string `json:"key,omitempty"`
	SaveNFeInfo bool   `json:"save_nfe_info"`
}

// EcfInfo cross-references the fiscal printer coupon.
type EcfInfo struct {
	RegisterNumber string `json:"register_number"`
	CouponNumber   string `json:"coupon_number"`
}

// Branch is the issuing branch.
type Branch struct {
	Person Person `json:"person"`
	CRT    int    `json:"crt"`
}

// Simples reports whether the branch issues under Simples Nacional.
func (b *Branch) Simples() bool {
	return b.CRT == CRTSimples || b.CRT == CRTSimplesExcess
}

// Party is a recipient or transporter.
type Party struct {
	Person Person `json:"person"`
}

// Person carries the identification shared by all parties.
type Person struct {
	Name       string      `json:"name"`
	Company    *Company    `json:"company,omitempty"`
	Individual *Individual `json:"individual,omitempty"`
	Address    *Address    `json:"address,omitempty"`
	Email      string      `json:"email,omitempty"`
}

// Company identification. TaxID is the 14-digit CNPJ.
type Company struct {
	TaxID         string `json:"tax_id"`
	StateRegistry string `json:"state_registry,omitempty"`
}

// Individual identification. TaxID is the 11-digit CPF.
type Individual struct {
	TaxID string `json:"tax_id"`
}

// Address of a party. CountryCode and CountryName default to Brazil when
// left zero.
type Address struct {
	Street      string `json:"street"`
	Number      string `json:"number,omitempty"`
	Complement  string `json:"complement,omitempty"`
	District    string `json:"district,omitempty"`
	City        string `json:"city"`
	CityCode    int    `json:"city_code"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code,omitempty"`
	CountryCode int    `json:"country_code,omitempty"`
	CountryName string `json:"country_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Brazil per the IBGE country table.
const (
	DefaultCountryCode = 1058
	DefaultCountryName = "BRASIL"
)

// Country returns the country code, defaulting to Brazil.
func (a *Address) Country() int {
	if a == nil || a.CountryCode == 0 {
		return DefaultCountryCode
	}
	return a.CountryCode
}

// CountryLabel returns the country name, defaulting to BRASIL.
func (a *Address) CountryLabel() string {
	if a == nil || a.CountryName == "" {
		return DefaultCountryName
	}
	return a.CountryName
}

// Payment is one installment of the operation.
type Payment struct {
	Identifier int             `json:"identifier"`
	DueDate    time.Time       `json:"due_date"`
	Value      decimal.Decimal `json:"value"`
	PaidDate   *time.Time      `json:"paid_date,omitempty"`
}

// Item is one line of the operation.
type Item struct {
	Code            string   `json:"code"`
	Description     string   `json:"description"`
	UnitDescription string   `json:"unit_description,omitempty"`
	Barcode         string   `json:"barcode,omitempty"`
	Product         *Product `json:"product,omitempty"`

	CFOP     string          `json:"cfop"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`

	Icms   IcmsInfo   `json:"icms"`
	Ipi    IpiInfo    `json:"ipi"`
	Pis    PisInfo    `json:"pis"`
	Cofins CofinsInfo `json:"cofins"`
}

// Total is the gross line total, quantity times unit price.
func (i *Item) Total() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}

// Product carries the customs classification and physical data of a
// sellable. Items without a product leave NCM/EX-TIPI/genero blank and are
// excluded from volume computation.
type Product struct {
	NCM    string          `json:"ncm,omitempty"`
	ExTipi string          `json:"ex_tipi,omitempty"`
	Genero string          `json:"genero,omitempty"`
	Weight decimal.Decimal `json:"weight"`
}
