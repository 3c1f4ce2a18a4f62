package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSession_AddEntryAssignsStableIDs(t *testing.T) {
	s := NewSession("s-1")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	first := s.AddEntry("a.png", "data:image/png;base64,a", img, nil)
	second := s.AddEntry("b.png", "data:image/png;base64,b", img, nil)

	require.Equal(t, 0, first.ID)
	require.Equal(t, 1, second.ID)

	got, ok := s.Entry(1)
	require.True(t, ok)
	require.Equal(t, "b.png", got.Name)

	_, ok = s.Entry(7)
	require.False(t, ok)

	entries := s.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "a.png", entries[0].Name)
	require.Equal(t, "b.png", entries[1].Name)
}
