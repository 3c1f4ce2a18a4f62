package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPointerEvent_ScalesToImageSpace(t *testing.T) {
	// Изображение 800x600 показано в окне 400x300
	p := MapPointerEvent(PointerEvent{ClientX: 100, ClientY: 100}, 400, 300, 800, 600)
	require.Equal(t, 200, p.X)
	require.Equal(t, 200, p.Y)
}

func TestMapPointerEvent_SubtractsOrigin(t *testing.T) {
	ev := PointerEvent{ClientX: 130, ClientY: 120, OriginX: 30, OriginY: 20}
	p := MapPointerEvent(ev, 400, 300, 800, 600)
	require.Equal(t, 200, p.X)
	require.Equal(t, 200, p.Y)
}

func TestMapPointerEvent_RoundsToNearestPixel(t *testing.T) {
	p := MapPointerEvent(PointerEvent{ClientX: 10.6, ClientY: 10.2}, 100, 100, 200, 200)
	require.Equal(t, 21, p.X)
	require.Equal(t, 20, p.Y)
}

func TestMapPointerEvent_ClampsToImageBounds(t *testing.T) {
	p := MapPointerEvent(PointerEvent{ClientX: -15, ClientY: 500}, 400, 300, 800, 600)
	require.Equal(t, 0, p.X)
	require.Equal(t, 599, p.Y)

	p = MapPointerEvent(PointerEvent{ClientX: 5000, ClientY: -1}, 400, 300, 800, 600)
	require.Equal(t, 799, p.X)
	require.Equal(t, 0, p.Y)
}

func TestParsePointLabel(t *testing.T) {
	label, err := ParsePointLabel("positive")
	require.NoError(t, err)
	require.Equal(t, LabelPositive, label)

	label, err = ParsePointLabel("negative")
	require.NoError(t, err)
	require.Equal(t, LabelNegative, label)

	_, err = ParsePointLabel("maybe")
	require.Error(t, err)
}
