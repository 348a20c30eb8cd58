package nfe

import (
	"strings"
	"unicode"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// newAddressNode builds the embedded address group shared by issuer and
// recipient. tag/textTag differ per parent (enderEmit/C05, enderDest/E05).
func newAddressNode(tag, textTag string, addr *model.Address) *Node {
	n := NewNode(tag, textTag, []Attr{
		{Name: "xLgr"},
		{Name: "nro", Default: "0"},
		{Name: "xCpl"},
		{Name: "xBairro"},
		{Name: "cMun"},
		{Name: "xMun"},
		{Name: "UF"},
		{Name: "CEP"},
		{Name: "cPais", Default: model.DefaultCountryCode},
		{Name: "xPais", Default: model.DefaultCountryName},
		{Name: "fone"},
	})
	if addr == nil {
		return n
	}
	n.Set("xLgr", format.Truncate(addr.Street, 60))
	if addr.Number != "" {
		n.Set("nro", addr.Number)
	}
	if addr.Complement != "" {
		n.Set("xCpl", addr.Complement)
	}
	if addr.District != "" {
		n.Set("xBairro", addr.District)
	}
	n.Set("cMun", addr.CityCode)
	n.Set("xMun", addr.City)
	n.Set("UF", addr.State)
	if cep := format.Digits(addr.PostalCode); cep != "" {
		n.Set("CEP", cep)
	}
	n.Set("cPais", addr.Country())
	n.Set("xPais", addr.CountryLabel())
	// Phones shorter than 7 digits are fillers, not numbers.
	if phone := format.Digits(addr.Phone); len(phone) > 6 {
		n.Set("fone", phone)
	}
	return n
}

// buildIssuer emits the C section.
func buildIssuer(branch *model.Branch) *Node {
	person := branch.Person
	n := NewNode("emit", "C", []Attr{
		{Name: "CNPJ"},
		{Name: "CPF"},
		{Name: "xNome"},
	})
	n.Set("CNPJ", person.Company.TaxID)
	n.Set("xNome", format.Truncate(person.Name, 60))
	n.Append(newAddressNode("enderEmit", "C05", person.Address))

	// IE and CRT follow the address in the XML form.
	tail := NewNode("", "", []Attr{
		{Name: "IE"},
		{Name: "CRT"},
	})
	ie := stateRegistry(person.Company.StateRegistry)
	if ie != "" {
		tail.Set("IE", ie)
	}
	tail.Set("CRT", branch.CRT)
	n.Append(tail)

	n.textEmit = func(n *Node, b *strings.Builder) {
		// Issuers without a state registry export the ISENTO literal;
		// the XML simply omits the element.
		textIE := ie
		if textIE == "" {
			textIE = "ISENTO"
		}
		writeLine(b, "C", str(n.Get("xNome")), "", textIE, "", "", "", scalar(tail.Get("CRT")))
		writeLine(b, "C02", str(n.Get("CNPJ")))
	}
	return n
}

// buildRecipient emits the E section.
func buildRecipient(recipient *model.Party) *Node {
	person := recipient.Person
	n := NewNode("dest", "E", []Attr{
		{Name: "CNPJ"},
		{Name: "CPF"},
		{Name: "xNome"},
	})

	docTag := "E03"
	docValue := ""
	switch {
	case person.Company != nil:
		docTag = "E02"
		docValue = person.Company.TaxID
		n.Set("CNPJ", docValue)
	case person.Individual != nil:
		docValue = person.Individual.TaxID
		n.Set("CPF", docValue)
	default:
		// A recipient with neither document serializes as an empty CPF.
		n.Set("CPF", "")
	}
	n.Set("xNome", format.Truncate(person.Name, 60))
	n.Append(newAddressNode("enderDest", "E05", person.Address))

	ie := ""
	if person.Company != nil {
		ie = stateRegistry(person.Company.StateRegistry)
	}
	indIEDest := recipientIEIndicator(person, ie)

	tail := NewNode("", "", []Attr{
		{Name: "indIEDest"},
		{Name: "IE"},
		{Name: "email"},
	})
	tail.Set("indIEDest", indIEDest)
	if ie != "" {
		tail.Set("IE", ie)
	}
	if person.Email != "" {
		tail.Set("email", person.Email)
	}
	n.Append(tail)

	n.textEmit = func(n *Node, b *strings.Builder) {
		writeLine(b, "E", str(n.Get("xNome")), indIEDest, ie, "", "", person.Email)
		writeLine(b, docTag, docValue)
	}
	return n
}

// recipientIEIndicator derives indIEDest: 1 for a valid numeric IE, 2 for
// a company without one, 9 otherwise.
func recipientIEIndicator(person model.Person, ie string) string {
	if ie != "" && ie == format.Digits(ie) {
		return "1"
	}
	if person.Company != nil && ie == "" {
		return "2"
	}
	return "9"
}

// buildCarrier emits the X03 transporter group with its summary address.
func buildCarrier(carrier *model.Party) *Node {
	person := carrier.Person
	n := NewNode("transporta", "", []Attr{
		{Name: "CNPJ"},
		{Name: "CPF"},
		{Name: "xNome"},
		{Name: "IE"},
		{Name: "xEnder"},
		{Name: "xMun"},
		{Name: "UF"},
	})

	docTag := "X05"
	docValue := ""
	switch {
	case person.Company != nil:
		docTag = "X04"
		docValue = person.Company.TaxID
		n.Set("CNPJ", docValue)
	case person.Individual != nil:
		docValue = person.Individual.TaxID
		n.Set("CPF", docValue)
	}
	n.Set("xNome", format.Truncate(person.Name, 60))

	ie := ""
	if person.Company != nil {
		ie = stateRegistry(person.Company.StateRegistry)
		if ie != "" {
			n.Set("IE", ie)
		}
	}
	if addr := person.Address; addr != nil {
		n.Set("xEnder", summaryAddress(addr))
		n.Set("xMun", addr.City)
		n.Set("UF", addr.State)
	}

	n.textEmit = func(n *Node, b *strings.Builder) {
		writeLine(b, "X03", str(n.Get("xNome")), ie, str(n.Get("xEnder")), str(n.Get("xMun")), str(n.Get("UF")))
		writeLine(b, docTag, docValue)
	}
	return n
}

func summaryAddress(addr *model.Address) string {
	parts := []string{addr.Street}
	if addr.Number != "" {
		parts = append(parts, addr.Number)
	}
	if addr.District != "" {
		parts = append(parts, addr.District)
	}
	return format.Truncate(strings.Join(parts, ", "), 60)
}

// stateRegistry normalizes an IE value: purely alphabetic registries
// (e.g. "isento") uppercase, anything carrying digits keeps the digits
// only.
func stateRegistry(s string) string {
	if s == "" {
		return ""
	}
	hasDigit := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if hasDigit {
		return format.Digits(s)
	}
	return strings.ToUpper(s)
}

// writeLine emits one pipe-delimited text line.
func writeLine(b *strings.Builder, tag string, fields ...string) {
	b.WriteString(tag)
	b.WriteByte('|')
	for _, f := range fields {
		b.WriteString(f)
		b.WriteByte('|')
	}
	b.WriteByte('\n')
}

func str(v interface{}) string {
	if v == nil {
		return ""
	}
	return scalar(v)
}
