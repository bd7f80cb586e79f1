package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wireproto/amqspec/spec"
)

const testDoc = `<amqp major="9" minor="1">
  <constant name="frame-end" value="206"/>
  <domain name="queue-name" type="shortstr"/>
  <class name="basic" index="60" handler="channel">
    <method name="get" index="70" synchronous="1">
      <response name="get-ok"/>
      <field name="queue" domain="queue-name"/>
    </method>
    <method name="get-ok" index="71" content="1"/>
  </class>
</amqp>`

func compile(t *testing.T) *spec.Spec {
	t.Helper()
	s, err := spec.NewLoader(nil).LoadDocuments(spec.Document{Name: "test.xml", Content: []byte(testDoc)})
	require.NoError(t, err)
	return s
}

func TestBuild(t *testing.T) {
	doc := Build(compile(t))

	assert.NotEmpty(t, doc.CompileID)
	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Equal(t, "test.xml", doc.Source)
	assert.Equal(t, "amqp91", doc.Label)
	assert.Equal(t, "9-1", doc.Version)
	assert.Equal(t, 9, doc.Major)
	assert.Equal(t, 1, doc.Minor)

	require.Len(t, doc.Constants, 1)
	assert.Equal(t, "frame_end", doc.Constants[0].Name)
	assert.Equal(t, 206, doc.Constants[0].ID)

	require.Len(t, doc.Classes, 1)
	cls := doc.Classes[0]
	assert.Equal(t, "basic", cls.Name)
	require.Len(t, cls.Methods, 2)

	get := cls.Methods[0]
	assert.Equal(t, "get", get.Name)
	assert.True(t, get.Synchronous)
	assert.Equal(t, []string{"get_ok"}, get.Responses)
	require.Len(t, get.Fields, 1)
	assert.Equal(t, "shortstr", get.Fields[0].Type)

	assert.True(t, cls.Methods[1].IsResponse)
}

func TestBuild_FreshCompileIDs(t *testing.T) {
	s := compile(t)
	d1 := Build(s)
	d2 := Build(s)
	assert.NotEqual(t, d1.CompileID, d2.CompileID)
}

func TestEncode_JSON(t *testing.T) {
	doc := Build(compile(t))

	data, err := doc.Encode(FormatJSON)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc.Label, decoded.Label)
	assert.Equal(t, doc.CompileID, decoded.CompileID)
	require.Len(t, decoded.Classes, 1)
	assert.Equal(t, doc.Classes[0].Methods[0].Responses, decoded.Classes[0].Methods[0].Responses)
}

func TestEncode_YAML(t *testing.T) {
	doc := Build(compile(t))

	data, err := doc.Encode(FormatYAML)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, doc.Label, decoded.Label)
	assert.Equal(t, doc.Major, decoded.Major)
	require.Len(t, decoded.Classes, 1)
	assert.Equal(t, "basic", decoded.Classes[0].Name)
}

func TestEncode_UnknownFormat(t *testing.T) {
	doc := Build(compile(t))
	_, err := doc.Encode(Format("toml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestFormatRegistry(t *testing.T) {
	info, ok := GetFormatInfo(FormatJSON)
	require.True(t, ok)
	assert.Equal(t, ".json", info.Extension)
	assert.Equal(t, "application/json", info.MIMEType)

	_, ok = GetFormatInfo(Format("toml"))
	assert.False(t, ok)
}
