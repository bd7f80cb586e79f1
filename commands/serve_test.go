package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproto/amqspec/export"
	"github.com/wireproto/amqspec/spec"
)

const serveTestDoc = `<amqp major="9" minor="1">
  <domain name="queue-name" type="shortstr"/>
  <class name="basic" index="60" handler="channel">
    <method name="get" index="70" synchronous="1">
      <response name="get-ok"/>
      <field name="queue" domain="queue-name"/>
    </method>
    <method name="get-ok" index="71" content="1"/>
  </class>
</amqp>`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := spec.NewLoader(nil).LoadDocuments(spec.Document{Name: "test.xml", Content: []byte(serveTestDoc)})
	require.NoError(t, err)

	srv := newSpecServer(s, prometheus.NewRegistry(), nil)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestServe_Spec(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/spec")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc export.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "amqp91", doc.Label)
	require.Len(t, doc.Classes, 1)
}

func TestServe_Class(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/classes/basic")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cls export.Class
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cls))
	assert.Equal(t, "basic", cls.Name)
	assert.Len(t, cls.Methods, 2)
}

func TestServe_ClassNotFound(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/classes/nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_Method(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/methods/basic.get")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m export.Method
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, "get", m.Name)
	assert.Equal(t, []string{"get_ok"}, m.Responses)
}

func TestServe_MethodNotFound(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/methods/basic.nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_Metrics(t *testing.T) {
	ts := testServer(t)

	// Generate some traffic first
	resp, err := http.Get(ts.URL + "/spec")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
