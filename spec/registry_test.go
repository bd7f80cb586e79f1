package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Add(t *testing.T) {
	r := NewRegistry[*Constant]()

	require.NoError(t, r.Add(&Constant{Name: "frame_method", ID: 1}))
	require.NoError(t, r.Add(&Constant{Name: "frame_header", ID: 2}))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry[*Constant]()

	require.NoError(t, r.Add(&Constant{Name: "frame_method", ID: 1}))
	err := r.Add(&Constant{Name: "frame_method", ID: 9})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DuplicateID(t *testing.T) {
	r := NewRegistry[*Constant]()

	require.NoError(t, r.Add(&Constant{Name: "frame_method", ID: 1}))
	err := r.Add(&Constant{Name: "frame_header", ID: 1})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry[*Constant]()
	c := &Constant{Name: "frame_end", ID: 206}
	require.NoError(t, r.Add(c))

	byName, err := r.ByName("frame_end")
	require.NoError(t, err)
	assert.Same(t, c, byName)

	byID, err := r.ByID(206)
	require.NoError(t, err)
	assert.Same(t, c, byID)

	_, err = r.ByName("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.ByID(404)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, r.Has("frame_end"))
	assert.False(t, r.Has("missing"))
}

func TestRegistry_OrderAndIndex(t *testing.T) {
	r := NewRegistry[*Field]()
	fields := []*Field{
		{Name: "reserved", ID: 0, Type: "short"},
		{Name: "exchange", ID: 1, Type: "shortstr"},
		{Name: "routing_key", ID: 2, Type: "shortstr"},
	}
	for _, f := range fields {
		require.NoError(t, r.Add(f))
	}

	items := r.Items()
	require.Len(t, items, 3)
	for i, f := range fields {
		assert.Same(t, f, items[i])

		pos, err := r.Index(f)
		require.NoError(t, err)
		assert.Equal(t, i, pos)
	}

	_, err := r.Index(&Field{Name: "never_added"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_ItemsIsCopy(t *testing.T) {
	r := NewRegistry[*Field]()
	require.NoError(t, r.Add(&Field{Name: "a", ID: 0}))

	items := r.Items()
	items[0] = &Field{Name: "b", ID: 1}

	fresh := r.Items()
	assert.Equal(t, "a", fresh[0].Name)
}
