package nfe

import (
	"strings"

	"github.com/rezonia/nfe-emitter/internal/model"
)

// IbptMessenger produces the approximate-tax message printed in the fisco
// text. The table it consults is an external collaborator, so the hook is
// injectable; the default emits nothing.
type IbptMessenger func(items []model.Item) string

// buildAdditionalInfo emits the Z section: the fisco text (IBPT message
// plus the configured suffix) and the flattened operator comments, with
// every newline converted to a space.
func buildAdditionalInfo(op *model.Operation, fiscoSuffix string, ibpt IbptMessenger) *Node {
	n := NewNode("infAdic", "Z", []Attr{
		{Name: "infAdFisco"},
		{Name: "infCpl"},
	})

	fisco := ""
	if ibpt != nil {
		fisco = ibpt(op.Items)
	}
	fisco += fiscoSuffix
	if fisco != "" {
		n.Set("infAdFisco", flatten(fisco))
	}

	if len(op.Comments) > 0 {
		n.Set("infCpl", flatten(strings.Join(op.Comments, " / ")))
	}
	return n
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
