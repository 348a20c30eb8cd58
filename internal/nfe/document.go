package nfe

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/rezonia/nfe-emitter/internal/accesskey"
	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// Layout constants fixed by the 3.10 specification.
const (
	Namespace = "http://www.portalfiscal.inf.br/nfe"
	Version   = "3.10"

	txtHeader = "NOTAFISCAL|1|\n"
)

// BuildParams carries everything the assembler needs beyond the operation
// itself. Nonce is the already-drawn 8-digit cNF.
type BuildParams struct {
	Config config.Config
	Nonce  int
	Ibpt   IbptMessenger
}

// Document is a fully assembled NF-e, ready for either serialization.
type Document struct {
	Key  string
	root *Node
}

// BuildDocument assembles the document tree from an operation, enforcing
// the key-ties invariants, and writes the nonce and access key back onto
// the operation's invoice.
func BuildDocument(op *model.Operation, p BuildParams) (doc *Document, err error) {
	// Node shape assertions surface as invariant violations.
	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(*model.InvariantViolationError)
			if !ok {
				panic(r)
			}
			doc, err = nil, iv
		}
	}()

	if err := validateOperation(op); err != nil {
		return nil, err
	}

	branch := &op.Branch
	cnpj := branch.Person.Company.TaxID

	key, err := accesskey.Build(accesskey.Fields{
		StateCode:    StateCode(branch.Person.Address.State),
		YearMonth:    op.EmissionDate.Format("0601"),
		IssuerTaxID:  cnpj,
		Model:        modelNFe,
		Series:       p.Config.SerialNumber,
		Number:       op.Invoice.Number,
		EmissionType: 1,
		Nonce:        p.Nonce,
	})
	if err != nil {
		return nil, err
	}
	nonce := format.ZeroPad(p.Nonce, 8)

	root := NewNode("infNFe", "", nil)
	root.SetXMLAttr("versao", Version)
	root.SetXMLAttr("Id", accesskey.Prefix+key)
	root.textEmit = func(n *Node, b *strings.Builder) {
		writeLine(b, "A", Version, accesskey.Prefix+key)
	}

	root.Append(buildIdentification(op, p.Config, nonce, key[43]))
	root.Append(buildIssuer(branch))
	root.Append(buildRecipient(&op.Recipient))

	var totals Totals
	for i := range op.Items {
		item := &op.Items[i]
		det, err := buildDetail(item, i+1, branch.CRT, op.CouponPrinted())
		if err != nil {
			return nil, err
		}
		root.Append(det)
		totals.Add(item)
	}

	root.Append(buildTotals(&totals))
	root.Append(buildTransport(op))
	root.Append(buildBilling(op))
	root.Append(buildAdditionalInfo(op, p.Config.FiscoInformation, p.Ibpt))

	op.Invoice.CNF = nonce
	op.Invoice.Key = key

	return &Document{Key: key, root: root}, nil
}

// validateOperation enforces the fatal preconditions on the input.
func validateOperation(op *model.Operation) error {
	if op.Invoice == nil || op.Invoice.Number <= 0 {
		return model.NewDataInconsistency("invoice", "invoice-number", "invoice number absent")
	}
	person := op.Branch.Person
	if person.Company == nil {
		return model.NewDataInconsistency(person.Name, "branch-company", "issuing branch lacks a company")
	}
	if !accesskey.ValidCNPJ(person.Company.TaxID) {
		return model.NewDataInconsistency(person.Name, "issuer-cnpj",
			fmt.Sprintf("Tax ID of %s is not valid", person.Name))
	}
	if person.Address == nil {
		return model.NewDataInconsistency(person.Name, "branch-address", "issuing branch lacks an address")
	}
	if StateCode(person.Address.State) == 0 {
		return model.NewDataInconsistency(person.Name, "branch-state",
			fmt.Sprintf("unknown federation unit %q", person.Address.State))
	}
	return nil
}

// Root returns the infNFe node, exposed for structural tests.
func (d *Document) Root() *Node {
	return d.root
}

// XML renders the canonical XML serialization: the NFe envelope passed
// through W3C C14N, with any newlines the canonicalizer produced removed.
func (d *Document) XML() ([]byte, error) {
	envelope := etree.NewElement("NFe")
	envelope.CreateAttr("xmlns", Namespace)
	d.root.XML(envelope)

	canonical, err := dsig.MakeC14N10RecCanonicalizer().Canonicalize(envelope)
	if err != nil {
		return nil, fmt.Errorf("canonicalization failed: %w", err)
	}
	canonical = []byte(strings.NewReplacer("\r", "", "\n", "").Replace(string(canonical)))
	return canonical, nil
}

// Text renders the pipe-delimited serialization: the fixed header, the A
// line and the recursive text form, transliterated to ASCII as a whole.
func (d *Document) Text() string {
	var b strings.Builder
	b.WriteString(txtHeader)
	d.root.Text(&b)
	return format.StripAccents(b.String())
}

// XMLFileName and TextFileName derive the output names from the bare key.
func (d *Document) XMLFileName() string {
	return d.Key + "-nfe.xml"
}

func (d *Document) TextFileName() string {
	return d.Key + "-nfe.txt"
}
