// Package accesskey assembles and verifies the 44-digit NF-e access key
// and the modulus-11 checks it depends on.
package accesskey

import (
	"strings"

	"github.com/rezonia/nfe-emitter/internal/format"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// Prefix is prepended to the key in the infNFe Id attribute.
const Prefix = "NFe"

// Fields are the components concatenated into the 43-digit key body.
type Fields struct {
	StateCode    int    // cUF, 2 digits
	YearMonth    string // AAMM of the emission date
	IssuerTaxID  string // 14-digit CNPJ
	Model        string // "55" or "65"
	Series       int    // 3 digits
	Number       int    // nNF, 9 digits
	EmissionType int    // tpEmis, 1 digit
	Nonce        int    // cNF, 8 digits
}

// Build concatenates the fields to 43 digits and appends the modulus-11
// check digit.
func Build(f Fields) (string, error) {
	body := format.ZeroPad(f.StateCode, 2) +
		f.YearMonth +
		f.IssuerTaxID +
		f.Model +
		format.ZeroPad(f.Series, 3) +
		format.ZeroPad(f.Number, 9) +
		format.ZeroPad(f.EmissionType, 1) +
		format.ZeroPad(f.Nonce, 8)
	if len(body) != 43 {
		return "", model.NewInvariantViolation("key length must be 43 before check, got %d", len(body))
	}
	return body + string(rune('0'+CheckDigit(body))), nil
}

// CheckDigit computes the modulus-11 check of a digit string. Weights
// cycle through 2..9 starting from the rightmost digit; remainders 0 and 1
// map to 0.
func CheckDigit(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// Verify reports whether key is 44 digits and its last digit matches the
// modulus-11 check of the first 43.
func Verify(key string) bool {
	if len(key) != 44 || key != format.Digits(key) {
		return false
	}
	return int(key[43]-'0') == CheckDigit(key[:43])
}

// FromID extracts the 44-digit key from an infNFe Id value such as
// "NFe3512...". It returns "" when the value does not carry a key.
func FromID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, Prefix) && len(id) == 47 {
		return id[len(Prefix):]
	}
	return ""
}

// ValidCNPJ runs the double-weight modulus-11 check over a 14-digit
// company id.
func ValidCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || cnpj != format.Digits(cnpj) {
		return false
	}
	if cnpjDigit(cnpj[:12]) != int(cnpj[12]-'0') {
		return false
	}
	return cnpjDigit(cnpj[:13]) == int(cnpj[13]-'0')
}

// cnpjDigit computes one CNPJ verifier digit. Weights descend from 2 to 9
// and restart, taken right to left.
func cnpjDigit(body string) int {
	weight := 2
	sum := 0
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// ValidCPF runs the modulus-11 check over an 11-digit individual id.
func ValidCPF(cpf string) bool {
	if len(cpf) != 11 || cpf != format.Digits(cpf) {
		return false
	}
	if cpfDigit(cpf[:9]) != int(cpf[9]-'0') {
		return false
	}
	return cpfDigit(cpf[:10]) == int(cpf[10]-'0')
}

func cpfDigit(body string) int {
	sum := 0
	for i, weight := 0, len(body)+1; i < len(body); i, weight = i+1, weight-1 {
		sum += int(body[i]-'0') * weight
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
