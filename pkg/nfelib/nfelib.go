// Package nfelib provides a public API for generating Brazilian NF-e 3.10
// documents.
//
// This package exposes the core types for assembling a document from a
// completed commercial operation and persisting its canonical XML and
// pipe-delimited text serializations.
//
// Example usage:
//
//	cfg, err := nfelib.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen := nfelib.NewGenerator(cfg)
//	result, err := gen.Emit(op, "./out")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Key)
package nfelib

import (
	"github.com/rezonia/nfe-emitter/internal/accesskey"
	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/generator"
	"github.com/rezonia/nfe-emitter/internal/model"
	"github.com/rezonia/nfe-emitter/internal/nfe"
)

// Re-export core types for public API
type (
	Operation     = model.Operation
	OperationKind = model.OperationKind
	Branch        = model.Branch
	Party         = model.Party
	Person        = model.Person
	Company       = model.Company
	Individual    = model.Individual
	Address       = model.Address
	Invoice       = model.Invoice
	EcfInfo       = model.EcfInfo
	Item          = model.Item
	Product       = model.Product
	Payment       = model.Payment
	IcmsInfo      = model.IcmsInfo
	IpiInfo       = model.IpiInfo
	PisInfo       = model.PisInfo
	CofinsInfo    = model.CofinsInfo

	Config    = config.Config
	Generator = generator.Generator
	Option    = generator.Option
	Result    = generator.Result
	Document  = nfe.Document
)

// Re-export operation kinds
const (
	KindSale         = model.KindSale
	KindReturnedSale = model.KindReturnedSale
	KindTransfer     = model.KindTransfer
)

// Re-export error types
type (
	DataInconsistencyError  = model.DataInconsistencyError
	InvariantViolationError = model.InvariantViolationError
	UnsupportedVariantError = model.UnsupportedVariantError
)

// LoadConfig reads the NFE_* configuration from the environment.
func LoadConfig() (Config, error) {
	return config.Load()
}

// NewGenerator creates a generator bound to a configuration.
func NewGenerator(cfg Config, opts ...Option) *Generator {
	return generator.New(cfg, opts...)
}

// WithNonceSource pins the cNF source, mainly for tests.
var WithNonceSource = generator.WithNonceSource

// VerifyKey checks a 44-digit access key against its modulus-11 check
// digit.
func VerifyKey(key string) bool {
	return accesskey.Verify(key)
}
