package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the invocation a descriptor dispatches.
type recorder struct {
	descriptor *Descriptor
	args       []any
	content    any
	called     int
}

func (r *recorder) Invoke(d *Descriptor, args []any, content any) (any, error) {
	r.descriptor = d
	r.args = args
	r.content = content
	r.called++
	return "ok", nil
}

func publishDescriptor(t *testing.T) *Descriptor {
	t.Helper()
	s := loadPrimary(t)
	m, err := s.Method("basic.publish")
	require.NoError(t, err)
	d, err := NewDescriptor(m)
	require.NoError(t, err)
	return d
}

func TestDescriptor_ParamsAndDefaults(t *testing.T) {
	d := publishDescriptor(t)

	params := d.Params()
	require.Len(t, params, 3)
	assert.Equal(t, "reserved", params[0].Name)
	assert.Equal(t, "exchange", params[1].Name)
	assert.Equal(t, "routing_key", params[2].Name)

	assert.Equal(t, 0, d.Default(0))
	assert.Equal(t, "", d.Default(1))
	assert.Equal(t, "", d.Default(2))
	assert.True(t, d.HasContent())
}

func TestDescriptor_ArgumentsAllPositional(t *testing.T) {
	d := publishDescriptor(t)

	args, err := d.Arguments([]any{1, "amq.topic", "news"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "amq.topic", "news"}, args)
}

func TestDescriptor_ArgumentsAllNamed(t *testing.T) {
	d := publishDescriptor(t)

	named := map[string]any{"reserved": 1, "exchange": "amq.topic", "routing_key": "news"}
	args, err := d.Arguments(nil, named)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "amq.topic", "news"}, args)
}

func TestDescriptor_ArgumentsDefaults(t *testing.T) {
	d := publishDescriptor(t)

	args, err := d.Arguments(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{0, "", ""}, args)

	// Partially supplied: the rest fall back to defaults
	args, err = d.Arguments([]any{7}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{7, "", ""}, args)
}

func TestDescriptor_MixedPositionalAndNamed(t *testing.T) {
	d := publishDescriptor(t)

	args, err := d.Arguments([]any{1, "amq.topic"}, map[string]any{"routing_key": "news"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "amq.topic", "news"}, args)
}

func TestDescriptor_TooManyArguments(t *testing.T) {
	d := publishDescriptor(t)

	_, err := d.Arguments([]any{1, "a", "b", "c"}, nil)
	assert.ErrorIs(t, err, ErrTooManyArguments)

	_, err = d.Arguments([]any{1, "a", "b"}, map[string]any{"routing_key": "x"})
	assert.ErrorIs(t, err, ErrTooManyArguments)
}

func TestDescriptor_MultipleValues(t *testing.T) {
	d := publishDescriptor(t)

	_, err := d.Arguments([]any{1, "amq.topic"}, map[string]any{"exchange": "other"})
	assert.ErrorIs(t, err, ErrMultipleValues)
}

func TestDescriptor_UnknownArgument(t *testing.T) {
	d := publishDescriptor(t)

	_, err := d.Arguments(nil, map[string]any{"bogus": 1})
	assert.ErrorIs(t, err, ErrUnknownArgument)
}

func TestDescriptor_CallDispatchesCanonicalTuple(t *testing.T) {
	d := publishDescriptor(t)
	h := &recorder{}

	result, err := d.Call(h, []any{1, "amq.topic"}, map[string]any{"routing_key": "news"}, "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, h.called)
	assert.Same(t, d, h.descriptor)
	assert.Equal(t, []any{1, "amq.topic", "news"}, h.args)
	assert.Equal(t, "hi", h.content)
}

func TestDescriptor_ContentMethodAcceptsNilContent(t *testing.T) {
	d := publishDescriptor(t)
	h := &recorder{}

	_, err := d.Call(h, nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, h.content)
}

func TestDescriptor_NonContentMethodRejectsContent(t *testing.T) {
	s := loadPrimary(t)
	m, err := s.Method("basic.get")
	require.NoError(t, err)
	d, err := NewDescriptor(m)
	require.NoError(t, err)
	assert.False(t, d.HasContent())

	h := &recorder{}
	_, err = d.Call(h, nil, nil, "payload")
	assert.ErrorIs(t, err, ErrUnknownArgument)
	assert.Zero(t, h.called)

	_, err = d.Call(h, []any{"myqueue"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"myqueue"}, h.args)
}

func TestDescriptor_ArgumentErrorsDoNotDispatch(t *testing.T) {
	d := publishDescriptor(t)
	h := &recorder{}

	_, err := d.Call(h, []any{1, 2, 3, 4}, nil, "hi")
	assert.ErrorIs(t, err, ErrTooManyArguments)
	assert.Zero(t, h.called)
}

func TestDescriptor_TableDefaultIsFresh(t *testing.T) {
	m := manualMethod(t, &Field{Name: "headers", ID: 0, Type: "table"})
	d, err := NewDescriptor(m)
	require.NoError(t, err)

	args1, err := d.Arguments(nil, nil)
	require.NoError(t, err)
	args2, err := d.Arguments(nil, nil)
	require.NoError(t, err)

	t1 := args1[0].(map[string]any)
	t1["poisoned"] = true

	t2 := args2[0].(map[string]any)
	assert.Empty(t, t2)
}

func TestDescriptor_EveryPrimitiveDefault(t *testing.T) {
	tests := []struct {
		typ  string
		want any
	}{
		{"bit", false},
		{"shortstr", ""},
		{"longstr", ""},
		{"table", map[string]any{}},
		{"octet", 0},
		{"short", 0},
		{"long", 0},
		{"longlong", 0},
		{"timestamp", 0},
		{"content", nil},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			m := manualMethod(t, &Field{Name: "f", ID: 0, Type: tt.typ})
			d, err := NewDescriptor(m)
			require.NoError(t, err)

			args, err := d.Arguments(nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args[0])
		})
	}
}

func TestDescriptor_UnknownFieldType(t *testing.T) {
	m := manualMethod(t, &Field{Name: "f", ID: 0, Type: "quadstr"})
	_, err := NewDescriptor(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDescriptor_AliasAndDirectDeclarationShareDefaults(t *testing.T) {
	s := loadPrimary(t)
	m, err := s.Method("basic.publish")
	require.NoError(t, err)
	d, err := NewDescriptor(m)
	require.NoError(t, err)

	// exchange was declared through a domain chain, routing_key directly
	assert.Equal(t, d.Default(1), d.Default(2))
}

// manualMethod builds a one-off method outside the loader.
func manualMethod(t *testing.T, fields ...*Field) *Method {
	t.Helper()
	s := newSpec(0, 9, "manual")
	cls := &Class{
		Spec:    s,
		Name:    "test",
		ID:      1,
		Fields:  NewRegistry[*Field](),
		Methods: NewRegistry[*Method](),
	}
	require.NoError(t, s.Classes.Add(cls))

	m := &Method{Class: cls, Name: "probe", ID: 1, Fields: NewRegistry[*Field]()}
	require.NoError(t, cls.Methods.Add(m))
	for _, f := range fields {
		require.NoError(t, m.Fields.Add(f))
	}
	return m
}
