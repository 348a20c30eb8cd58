// Package generator drives document assembly end to end: it draws the
// nonce, builds the tree, and persists the two serializations.
package generator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/model"
	"github.com/rezonia/nfe-emitter/internal/nfe"
)

// NonceSource draws the 8-digit cNF. Tests rebind it to pin outputs.
type NonceSource func() int

// DefaultNonce draws uniformly from 10,000,000..99,999,999.
func DefaultNonce() int {
	return 10000000 + rand.Intn(90000000)
}

// Generator assembles and persists documents. Each call owns its own
// tree; instances are safe to share across goroutines as long as the
// configuration is not mutated.
type Generator struct {
	cfg   config.Config
	nonce NonceSource
	ibpt  nfe.IbptMessenger
}

// Option configures the generator.
type Option func(*Generator)

// WithNonceSource replaces the nonce source.
func WithNonceSource(src NonceSource) Option {
	return func(g *Generator) {
		g.nonce = src
	}
}

// WithIbptMessenger sets the approximate-tax message hook.
func WithIbptMessenger(m nfe.IbptMessenger) Option {
	return func(g *Generator) {
		g.ibpt = m
	}
}

// New creates a generator bound to a configuration.
func New(cfg config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:   cfg,
		nonce: DefaultNonce,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate assembles the document without touching the filesystem.
func (g *Generator) Generate(op *model.Operation) (*nfe.Document, error) {
	return nfe.BuildDocument(op, nfe.BuildParams{
		Config: g.cfg,
		Nonce:  g.nonce(),
		Ibpt:   g.ibpt,
	})
}

// Result names the two files an emission produced.
type Result struct {
	Key      string `json:"key"`
	XMLPath  string `json:"xml_path"`
	TextPath string `json:"text_path"`
}

// Emit assembles the document and writes both serializations into dir.
// On any failure no output file is left behind.
func (g *Generator) Emit(op *model.Operation, dir string) (*Result, error) {
	doc, err := g.Generate(op)
	if err != nil {
		return nil, err
	}

	xmlData, err := doc.XML()
	if err != nil {
		return nil, err
	}

	xmlPath := filepath.Join(dir, doc.XMLFileName())
	textPath := filepath.Join(dir, doc.TextFileName())

	if err := os.WriteFile(xmlPath, xmlData, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", xmlPath, err)
	}
	if err := os.WriteFile(textPath, []byte(doc.Text()), 0o644); err != nil {
		os.Remove(xmlPath)
		return nil, fmt.Errorf("failed to write %s: %w", textPath, err)
	}

	return &Result{Key: doc.Key, XMLPath: xmlPath, TextPath: textPath}, nil
}
