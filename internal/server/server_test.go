package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/model"
	"github.com/rezonia/nfe-emitter/internal/server"
)

func newTestServer() *server.Server {
	return server.NewServer(&server.Config{
		Address: ":0",
		Emitter: config.Default(),
	})
}

func doJSON(t *testing.T, s *server.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func emitOperation() *model.Operation {
	csosn := 102
	return &model.Operation{
		Kind:       model.KindSale,
		Identifier: 1,
		Branch: model.Branch{
			CRT: model.CRTSimples,
			Person: model.Person{
				Name:    "Loja Teste Ltda",
				Company: &model.Company{TaxID: "03852995000107", StateRegistry: "110042490114"},
				Address: &model.Address{
					Street:   "Rua Aurora",
					Number:   "212",
					City:     "São Paulo",
					CityCode: 3550308,
					State:    "SP",
				},
			},
		},
		Recipient: model.Party{
			Person: model.Person{
				Name:       "Cliente",
				Individual: &model.Individual{TaxID: "52998224725"},
			},
		},
		Items: []model.Item{{
			Code:        "01",
			Description: "Produto",
			CFOP:        "5102",
			Quantity:    decimal.NewFromInt(1),
			Price:       decimal.RequireFromString("10.00"),
			Icms:        model.IcmsInfo{Csosn: &csosn},
			Pis:         model.PisInfo{Cst: 7},
			Cofins:      model.CofinsInfo{Cst: 7},
		}},
		Invoice:         &model.Invoice{Number: 42},
		InvoiceSubtotal: decimal.RequireFromString("10.00"),
		InvoiceTotal:    decimal.RequireFromString("10.00"),
		EmissionDate:    time.Date(2012, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestHealth(t *testing.T) {
	w := doJSON(t, newTestServer(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestEmit_OK(t *testing.T) {
	w := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/emit", emitOperation())
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.EmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Key, 44)
	assert.Len(t, resp.CNF, 8)
	assert.Equal(t, resp.Key+"-nfe.xml", resp.XMLName)
	assert.Equal(t, resp.Key+"-nfe.txt", resp.TextName)
	assert.True(t, strings.HasPrefix(resp.XML, "<NFe xmlns="))
	assert.True(t, strings.HasPrefix(resp.Text, "NOTAFISCAL|1|\n"))
}

func TestEmit_MalformedPayload(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/emit", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmit_InconsistentOperation(t *testing.T) {
	op := emitOperation()
	op.Branch.Person.Company.TaxID = "03852995000108"

	w := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/emit", op)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Tax ID of Loja Teste Ltda is not valid")
}

func TestEmit_UnsupportedTaxCode(t *testing.T) {
	op := emitOperation()
	bad := 999
	op.Items[0].Icms.Csosn = &bad

	w := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/emit", op)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestKeyCheck(t *testing.T) {
	s := newTestServer()

	valid := "35120303852995000107550000000018851974726802"
	w := doJSON(t, s, http.MethodPost, "/api/v1/key/check", server.KeyCheckRequest{Key: valid})
	require.Equal(t, http.StatusOK, w.Code)
	var resp server.KeyCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, valid, resp.Key)

	// The NFe prefix is stripped before verification.
	w = doJSON(t, s, http.MethodPost, "/api/v1/key/check", server.KeyCheckRequest{Key: "NFe" + valid})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, valid, resp.Key)

	tampered := valid[:43] + "9"
	w = doJSON(t, s, http.MethodPost, "/api/v1/key/check", server.KeyCheckRequest{Key: tampered})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)

	w = doJSON(t, s, http.MethodPost, "/api/v1/key/check", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
