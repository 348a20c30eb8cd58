package nfe_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/model"
	"github.com/rezonia/nfe-emitter/internal/nfe"
)

const (
	testCNPJ  = "03852995000107"
	testNonce = 97472680
)

func dec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func intp(v int) *int {
	return &v
}

func spAddress() *model.Address {
	return &model.Address{
		Street:     "Rua Aurora",
		Number:     "212",
		District:   "Centro",
		City:       "São Paulo",
		CityCode:   3550308,
		State:      "SP",
		PostalCode: "01209-001",
	}
}

func baAddress() *model.Address {
	return &model.Address{
		Street:   "Avenida Sete de Setembro",
		Number:   "100",
		District: "Vitória",
		City:     "Salvador",
		CityCode: 2927408,
		State:    "BA",
	}
}

func simplesItem() model.Item {
	return model.Item{
		Code:            "01",
		Description:     "Álcool combustível",
		UnitDescription: "un",
		CFOP:            "5102",
		Quantity:        decimal.NewFromInt(2),
		Price:           decimal.RequireFromString("10.00"),
		Icms: model.IcmsInfo{
			Orig:    0,
			Csosn:   intp(201),
			PIcmsST: dec("1"),
		},
		Ipi:    model.IpiInfo{Cst: 53},
		Pis:    model.PisInfo{Cst: 7},
		Cofins: model.CofinsInfo{Cst: 7},
	}
}

func saleOperation() *model.Operation {
	return &model.Operation{
		Kind:       model.KindSale,
		Identifier: 77,
		Branch: model.Branch{
			CRT: model.CRTSimples,
			Person: model.Person{
				Name:    "Les Destiladores Ltda",
				Company: &model.Company{TaxID: testCNPJ, StateRegistry: "110042490114"},
				Address: spAddress(),
			},
		},
		Recipient: model.Party{
			Person: model.Person{
				Name:       "Cliente Comum",
				Individual: &model.Individual{TaxID: "52998224725"},
				Address:    spAddress(),
			},
		},
		Items:           []model.Item{simplesItem()},
		Invoice:         &model.Invoice{Number: 1885},
		InvoiceSubtotal: decimal.RequireFromString("20.00"),
		InvoiceTotal:    decimal.RequireFromString("20.00"),
		EmissionDate:    time.Date(2012, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func build(t *testing.T, op *model.Operation) *nfe.Document {
	t.Helper()
	doc, err := nfe.BuildDocument(op, nfe.BuildParams{
		Config: config.Default(),
		Nonce:  testNonce,
	})
	require.NoError(t, err)
	return doc
}

func TestBuildDocument_SimplesSN201(t *testing.T) {
	op := saleOperation()
	doc := build(t, op)

	assert.Equal(t, "35120303852995000107550000000018851974726802", doc.Key)

	xml, err := doc.XML()
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<ICMSSN201>")
	assert.Contains(t, string(xml), "<CSOSN>201</CSOSN>")
	assert.Contains(t, string(xml), "<pICMSST>1.00</pICMSST>")

	text := doc.Text()
	assert.Contains(t, text, "N10e|0|201|")
}

func TestBuildDocument_KeyCheckDigitAndWriteback(t *testing.T) {
	op := saleOperation()
	doc := build(t, op)

	assert.Len(t, doc.Key, 44)
	assert.Equal(t, "97472680", op.Invoice.CNF)
	assert.Equal(t, doc.Key, op.Invoice.Key)
}

func TestBuildDocument_NormalRegimeCST00(t *testing.T) {
	op := saleOperation()
	op.Branch.CRT = model.CRTNormal
	op.Items[0].Icms = model.IcmsInfo{
		Orig:  0,
		Cst:   intp(0),
		ModBC: intp(3),
		VBC:   dec("20.00"),
		PIcms: dec("18"),
		VIcms: dec("3.60"),
	}
	doc := build(t, op)

	xml, err := doc.XML()
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<ICMS00>")
	// The CST renders as the literal "00", never a scalar zero.
	assert.Contains(t, string(xml), "<CST>00</CST>")
	assert.Contains(t, string(xml), "<pICMS>18.00</pICMS>")
	assert.Contains(t, doc.Text(), "N02|0|00|3|20.00|18.00|3.60|")
}

func TestBuildDocument_ReturnedSale(t *testing.T) {
	op := saleOperation()
	op.Kind = model.KindReturnedSale
	doc := build(t, op)

	xml, err := doc.XML()
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<tpNF>0</tpNF>")
	assert.Contains(t, string(xml), "<finNFe>4</finNFe>")
}

func TestBuildDocument_DestinationIndicator(t *testing.T) {
	intra := saleOperation()
	xml := buildXML(t, intra)
	assert.Contains(t, xml, "<idDest>1</idDest>")

	inter := saleOperation()
	inter.Recipient.Person.Address = baAddress()
	assert.Contains(t, buildXML(t, inter), "<idDest>2</idDest>")

	abroad := saleOperation()
	abroad.Recipient.Person.Address.CountryCode = 586
	abroad.Recipient.Person.Address.CountryName = "PARAGUAI"
	assert.Contains(t, buildXML(t, abroad), "<idDest>3</idDest>")

	homeless := saleOperation()
	homeless.Recipient.Person.Address = nil
	assert.Contains(t, buildXML(t, homeless), "<idDest>1</idDest>")
}

func buildXML(t *testing.T, op *model.Operation) string {
	t.Helper()
	doc := build(t, op)
	xml, err := doc.XML()
	require.NoError(t, err)
	return string(xml)
}

func TestBuildDocument_TransferVolumes(t *testing.T) {
	op := saleOperation()
	op.Kind = model.KindTransfer

	weighted := simplesItem()
	weighted.Code = "02"
	weighted.UnitDescription = "kg"
	weighted.Quantity = decimal.RequireFromString("1.5")
	weighted.Product = &model.Product{NCM: "22071000", Weight: decimal.RequireFromString("0.8")}
	op.Items = append(op.Items, weighted)

	doc := build(t, op)
	xml, err := doc.XML()
	require.NoError(t, err)

	// Only the weighted item produces a volume; 1.5 units round up to 2.
	assert.Equal(t, 1, strings.Count(string(xml), "<vol>"))
	assert.Contains(t, string(xml), "<qVol>2</qVol>")
	assert.Contains(t, string(xml), "<esp>kg</esp>")
	assert.Contains(t, string(xml), "<pesoB>1.200</pesoB>")
}

func TestBuildDocument_CompanyRecipientWithoutIE(t *testing.T) {
	op := saleOperation()
	op.Recipient.Person = model.Person{
		Name:    "Empresa Sem Inscrição",
		Company: &model.Company{TaxID: "11222333000181"},
		Address: spAddress(),
	}
	doc := build(t, op)

	xml, err := doc.XML()
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<indIEDest>2</indIEDest>")

	etreeDoc := etree.NewDocument()
	require.NoError(t, etreeDoc.ReadFromBytes(xml))
	dest := etreeDoc.FindElement("//dest")
	require.NotNil(t, dest)
	assert.Nil(t, dest.FindElement("IE"))

	assert.Contains(t, doc.Text(), "E|Empresa Sem Inscricao|2||")
}

func TestBuildDocument_IssuerWithoutIE(t *testing.T) {
	op := saleOperation()
	op.Branch.Person.Company.StateRegistry = ""
	doc := build(t, op)

	// ISENTO appears only in the text export.
	assert.Contains(t, doc.Text(), "|ISENTO|")
	xml, err := doc.XML()
	require.NoError(t, err)

	etreeDoc := etree.NewDocument()
	require.NoError(t, etreeDoc.ReadFromBytes(xml))
	emit := etreeDoc.FindElement("//emit")
	require.NotNil(t, emit)
	assert.Nil(t, emit.FindElement("IE"))
}

func TestBuildDocument_RoundTrip(t *testing.T) {
	doc := build(t, saleOperation())
	xml, err := doc.XML()
	require.NoError(t, err)

	etreeDoc := etree.NewDocument()
	require.NoError(t, etreeDoc.ReadFromBytes(xml))

	root := etreeDoc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "NFe", root.Tag)

	children := root.ChildElements()
	require.Len(t, children, 1)
	assert.Equal(t, "infNFe", children[0].Tag)
	assert.Equal(t, "NFe"+doc.Key, children[0].SelectAttrValue("Id", ""))
	assert.Equal(t, "3.10", children[0].SelectAttrValue("versao", ""))
}

func TestBuildDocument_Idempotent(t *testing.T) {
	first := build(t, saleOperation())
	second := build(t, saleOperation())

	firstXML, err := first.XML()
	require.NoError(t, err)
	secondXML, err := second.XML()
	require.NoError(t, err)

	assert.Equal(t, firstXML, secondXML)
	assert.Equal(t, first.Text(), second.Text())
	assert.NotContains(t, string(firstXML), "\n")
}

func TestBuildDocument_TextHeaderAndALine(t *testing.T) {
	doc := build(t, saleOperation())
	text := doc.Text()

	assert.True(t, strings.HasPrefix(text, "NOTAFISCAL|1|\nA|3.10|NFe"+doc.Key+"|\n"))
	// Diacritics are stripped from the whole export.
	assert.Contains(t, text, "Alcool combustivel")
	assert.NotContains(t, text, "Á")
}

func TestBuildDocument_Totals(t *testing.T) {
	op := saleOperation()
	op.Branch.CRT = model.CRTNormal
	item := &op.Items[0]
	item.Icms = model.IcmsInfo{
		Orig:    0,
		Cst:     intp(10),
		VBC:     dec("20.00"),
		VIcms:   dec("3.60"),
		VBCST:   dec("30.00"),
		VIcmsST: dec("5.10"),
	}
	item.Ipi = model.IpiInfo{Cst: 50, VIpi: dec("2.00"), VBC: dec("20.00"), PIpi: dec("10")}

	doc := build(t, op)
	xml := mustXML(t, doc)

	// vNF = products (20.00) + ICMS-ST (5.10) + IPI (2.00).
	assert.Contains(t, xml, "<vProd>20.00</vProd>")
	assert.Contains(t, xml, "<vST>5.10</vST>")
	assert.Contains(t, xml, "<vIPI>2.00</vIPI>")
	assert.Contains(t, xml, "<vNF>27.10</vNF>")
}

func mustXML(t *testing.T, doc *nfe.Document) string {
	t.Helper()
	xml, err := doc.XML()
	require.NoError(t, err)
	return string(xml)
}

func TestBuildDocument_CouponPrinted(t *testing.T) {
	coupon := 9931
	op := saleOperation()
	op.CouponID = &coupon
	op.Items[0].Icms.VBCST = dec("100.00")

	doc := build(t, op)
	xml := mustXML(t, doc)

	// The placeholder keeps only the origin; Simples lands on SN900.
	assert.Contains(t, xml, "<ICMSSN900>")
	assert.Contains(t, xml, "<CSOSN>900</CSOSN>")
	assert.Contains(t, xml, "<vBCST>0</vBCST>")

	normal := saleOperation()
	normal.CouponID = &coupon
	normal.Branch.CRT = model.CRTNormal
	assert.Contains(t, buildXML(t, normal), "<ICMS90>")
}

func TestBuildDocument_EcfInfo(t *testing.T) {
	op := saleOperation()
	op.Ecf = &model.EcfInfo{RegisterNumber: "001", CouponNumber: "123456"}
	doc := build(t, op)

	assert.Contains(t, doc.Text(), "BA|\nBA20|2D|001|123456|\n")
	xml := mustXML(t, doc)
	assert.Contains(t, xml, "<refECF><mod>2D</mod><nECF>001</nECF><nCOO>123456</nCOO></refECF>")
}

func TestBuildDocument_PisOutrTwoLines(t *testing.T) {
	op := saleOperation()
	op.Items[0].Pis = model.PisInfo{Cst: 49, VBC: dec("20.00"), PPis: dec("0.65"), VPis: dec("0.13")}
	op.Items[0].Cofins = model.CofinsInfo{Cst: 49, VBC: dec("20.00"), PCofins: dec("3"), VCofins: dec("0.60")}
	doc := build(t, op)

	text := doc.Text()
	assert.Contains(t, text, "Q05|49|0.13|\nQ07|20.00|0.65|\n")
	assert.Contains(t, text, "S05|49|0.60|\nS07|20.00|3|\n")
}

func TestBuildDocument_TaxSentinels(t *testing.T) {
	doc := build(t, saleOperation())
	assert.Contains(t, doc.Text(), "M|\nN|\n")
}

func TestBuildDocument_PaymentIndicator(t *testing.T) {
	paid := time.Date(2012, 3, 15, 18, 0, 0, 0, time.UTC)
	op := saleOperation()
	op.Payments = []model.Payment{{
		Identifier: 1,
		DueDate:    paid,
		Value:      decimal.RequireFromString("20.00"),
		PaidDate:   &paid,
	}}
	assert.Contains(t, buildXML(t, op), "<indPag>0</indPag>")

	op = saleOperation()
	due := time.Date(2012, 4, 15, 0, 0, 0, 0, time.UTC)
	op.Payments = []model.Payment{{Identifier: 1, DueDate: due, Value: decimal.RequireFromString("20.00")}}
	xml := buildXML(t, op)
	assert.Contains(t, xml, "<indPag>1</indPag>")
	assert.Contains(t, xml, "<dup><nDup>1</nDup><dVenc>2012-04-15</dVenc><vDup>20.00</vDup></dup>")
}

func TestBuildDocument_InvalidIssuerCNPJ(t *testing.T) {
	op := saleOperation()
	op.Branch.Person.Company.TaxID = "03852995000108"

	_, err := nfe.BuildDocument(op, nfe.BuildParams{Config: config.Default(), Nonce: testNonce})
	require.Error(t, err)

	var inconsistency *model.DataInconsistencyError
	require.ErrorAs(t, err, &inconsistency)
	assert.Contains(t, inconsistency.Message, "Tax ID of Les Destiladores Ltda is not valid")
}

func TestBuildDocument_MissingInvoiceNumber(t *testing.T) {
	op := saleOperation()
	op.Invoice = nil

	_, err := nfe.BuildDocument(op, nfe.BuildParams{Config: config.Default(), Nonce: testNonce})
	var inconsistency *model.DataInconsistencyError
	require.ErrorAs(t, err, &inconsistency)
}

func TestBuildDocument_UnsupportedCodes(t *testing.T) {
	op := saleOperation()
	op.Items[0].Icms.Csosn = intp(999)
	_, err := nfe.BuildDocument(op, nfe.BuildParams{Config: config.Default(), Nonce: testNonce})
	var unsupported *model.UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 999, unsupported.Code)

	op = saleOperation()
	op.Items[0].Pis.Cst = 3
	_, err = nfe.BuildDocument(op, nfe.BuildParams{Config: config.Default(), Nonce: testNonce})
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "PIS CST", unsupported.Table)
}

func TestBuildDocument_FiscoAndComments(t *testing.T) {
	cfg := config.Default()
	cfg.FiscoInformation = "Documento emitido por ME optante pelo Simples\nNacional"

	op := saleOperation()
	op.Comments = []string{"primeira linha", "segunda\nlinha"}

	doc, err := nfe.BuildDocument(op, nfe.BuildParams{Config: cfg, Nonce: testNonce})
	require.NoError(t, err)

	xml := mustXML(t, doc)
	assert.Contains(t, xml, "<infAdFisco>Documento emitido por ME optante pelo Simples Nacional</infAdFisco>")
	assert.Contains(t, xml, "<infCpl>primeira linha / segunda linha</infCpl>")
}

func TestBuildDocument_BarcodeRule(t *testing.T) {
	op := saleOperation()
	op.Items[0].Barcode = "7891000100103"
	xml := buildXML(t, op)
	assert.Contains(t, xml, "<cEAN>7891000100103</cEAN>")
	assert.Contains(t, xml, "<cEANTrib>7891000100103</cEANTrib>")

	op = saleOperation()
	op.Items[0].Barcode = "12345"
	assert.NotContains(t, buildXML(t, op), "<cEAN>")
}
