package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer() *Server {
	return New([]byte("test-secret-value-padded-to-32b!"))
}

func postJSON(t *testing.T, srv *Server, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func Test_handleCreateSession(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func Test_handleAnalyze_withoutToken(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv, "/api/v1/analyze", "", analyzeRequest{Input: "1+2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "numeric-evaluation", body["strategy"])
}

func Test_handleAnalyze_emptyExpression(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv, "/api/v1/analyze", "", analyzeRequest{Input: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_handleAnalyze_syntaxError(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv, "/api/v1/analyze", "", analyzeRequest{Input: "1 + * 2"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func Test_handleHistory_requiresToken(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_handleAnalyze_recordsHistoryWithValidToken(t *testing.T) {
	srv := newTestServer()

	sessReq := httptest.NewRequest(http.MethodPost, "/api/v1/session", nil)
	sessRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(sessRec, sessReq)
	assert.Equal(t, http.StatusCreated, sessRec.Code)

	var sessBody map[string]string
	assert.NoError(t, json.Unmarshal(sessRec.Body.Bytes(), &sessBody))
	token := sessBody["token"]
	assert.NotEmpty(t, token)

	analyzeRec := postJSON(t, srv, "/api/v1/analyze", token, analyzeRequest{Input: "3+4"})
	assert.Equal(t, http.StatusOK, analyzeRec.Code)

	histReq := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	histReq.Header.Set("Authorization", "Bearer "+token)
	histRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(histRec, histReq)

	assert.Equal(t, http.StatusOK, histRec.Code)

	var entries []historyEntry
	assert.NoError(t, json.Unmarshal(histRec.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
	assert.Equal(t, "3+4", entries[0].Input)
}

func Test_Router_unknownRouteIs404(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nonexistent", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
