package nfe

import (
	"time"

	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// Document model and emitter procedure constants.
const (
	modelNFe     = "55"
	procVersion  = "nfe-emitter 1.0.0"
	ecfModel     = "2D"
	natureOfSale = "Venda"
)

func newIdeNode() *Node {
	return NewNode("ide", "B", []Attr{
		{Name: "cUF"},
		{Name: "cNF"},
		{Name: "natOp", Default: natureOfSale},
		{Name: "indPag", Default: "0"},
		{Name: "mod", Default: modelNFe},
		{Name: "serie", Default: "0"},
		{Name: "nNF"},
		{Name: "dhEmi"},
		{Name: "dhSaiEnt"},
		{Name: "tpNF", Default: "1"},
		{Name: "idDest", Default: "1"},
		{Name: "cMunFG"},
		{Name: "tpImp", Default: "1"},
		{Name: "tpEmis", Default: "1"},
		{Name: "cDV"},
		{Name: "tpAmb", Default: "2"},
		{Name: "finNFe", Default: "1"},
		{Name: "indFinal", Default: "0"},
		{Name: "indPres", Default: "0"},
		{Name: "procEmi", Default: "3"},
		{Name: "verProc", Default: procVersion},
		{Name: "dhCont"},
		{Name: "xJust"},
	})
}

// buildIdentification emits the B section. The access key has already been
// assembled, so the nonce and check digit come in as strings.
func buildIdentification(op *model.Operation, cfg config.Config, nonce string, checkDigit byte) *Node {
	branchAddr := op.Branch.Person.Address

	n := newIdeNode()
	n.Set("cUF", format.ZeroPad(StateCode(branchAddr.State), 2))
	n.Set("cNF", nonce)
	if op.Nature != "" {
		n.Set("natOp", format.Truncate(op.Nature, 60))
	}
	n.Set("indPag", paymentIndicator(op))
	n.Set("serie", format.ZeroPad(cfg.SerialNumber, 3))
	n.Set("nNF", op.Invoice.Number)
	n.Set("dhEmi", format.DateTime(op.EmissionDate))
	if op.DispatchDate != nil {
		n.Set("dhSaiEnt", format.DateTime(*op.DispatchDate))
	}
	if op.Kind == model.KindReturnedSale {
		n.Set("tpNF", "0")
		n.Set("finNFe", "4")
	}
	n.Set("idDest", destinationIndicator(op))
	n.Set("cMunFG", branchAddr.CityCode)
	n.Set("tpImp", cfg.DanfeOrientation)
	n.Set("cDV", string(checkDigit))
	n.Set("tpAmb", cfg.Environment)

	if op.Ecf != nil {
		ref := NewNode("NFref", "BA", nil)
		ecf := NewNode("refECF", "BA20", []Attr{
			{Name: "mod", Default: ecfModel},
			{Name: "nECF"},
			{Name: "nCOO"},
		})
		ecf.Set("nECF", op.Ecf.RegisterNumber)
		ecf.Set("nCOO", op.Ecf.CouponNumber)
		ref.Append(ecf)
		n.Append(ref)
	}
	return n
}

// paymentIndicator is 0 (cash) only for a single payment settled on the
// document date, 1 (term) otherwise.
func paymentIndicator(op *model.Operation) string {
	if len(op.Payments) == 1 {
		p := op.Payments[0]
		if p.PaidDate != nil && sameDay(*p.PaidDate, op.EmissionDate) {
			return "0"
		}
	}
	return "1"
}

// destinationIndicator derives idDest by comparing the branch and
// recipient locations: 1 intra-state, 2 inter-state, 3 international. A
// recipient without an address falls back to the branch location.
func destinationIndicator(op *model.Operation) string {
	branch := op.Branch.Person.Address
	recipient := op.Recipient.Person.Address
	if recipient == nil {
		recipient = branch
	}
	if recipient.Country() != branch.Country() {
		return "3"
	}
	if recipient.State != branch.State {
		return "2"
	}
	return "1"
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
