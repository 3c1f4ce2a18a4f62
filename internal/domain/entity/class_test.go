package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8001")
	require.NoError(t, err)
	require.Equal(t, RGB{R: 255, G: 128, B: 1}, c)

	c, err = ParseHexColor("00ff00")
	require.NoError(t, err)
	require.Equal(t, RGB{G: 255}, c)

	_, err = ParseHexColor("#zzz")
	require.Error(t, err)

	_, err = ParseHexColor("#ff00")
	require.Error(t, err)
}

func TestRGB_Hex(t *testing.T) {
	require.Equal(t, "#ff0a00", RGB{R: 255, G: 10}.Hex())
}

func TestClassRegistry_AddAndGet(t *testing.T) {
	reg := NewClassRegistry()

	require.NoError(t, reg.Add("cat", RGB{R: 255}))
	require.NoError(t, reg.Add("dog", RGB{G: 255}))
	require.ErrorIs(t, reg.Add("cat", RGB{B: 255}), ErrClassExists)

	class, ok := reg.Get("cat")
	require.True(t, ok)
	require.Equal(t, RGB{R: 255}, class.Color)

	_, ok = reg.Get("bird")
	require.False(t, ok)
}

func TestClassRegistry_SetColor(t *testing.T) {
	reg := NewClassRegistry()
	require.NoError(t, reg.Add("cat", RGB{R: 255}))

	require.NoError(t, reg.SetColor("cat", RGB{B: 255}))
	class, _ := reg.Get("cat")
	require.Equal(t, RGB{B: 255}, class.Color)

	require.ErrorIs(t, reg.SetColor("dog", RGB{}), ErrUnknownClass)
}

func TestClassRegistry_OrderAndIndex(t *testing.T) {
	reg := NewClassRegistry()
	require.NoError(t, reg.Add("cat", RGB{R: 255}))
	require.NoError(t, reg.Add("dog", RGB{G: 255}))
	require.NoError(t, reg.Add("bird", RGB{B: 255}))

	list := reg.List()
	require.Equal(t, []string{"cat", "dog", "bird"}, []string{list[0].Name, list[1].Name, list[2].Name})

	idx, ok := reg.Index("dog")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = reg.Index("fish")
	require.False(t, ok)
}
