package explain

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStub_ProducesValidPNG(t *testing.T) {
	out, err := NewStub().Render(context.Background(), []byte("mri-bytes"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, stubSize, img.Bounds().Dx())
}

func TestStub_DeterministicPerInput(t *testing.T) {
	stub := NewStub()
	a1, err := stub.Render(context.Background(), []byte("scan-a"))
	require.NoError(t, err)
	a2, err := stub.Render(context.Background(), []byte("scan-a"))
	require.NoError(t, err)
	require.Equal(t, a1, a2)

	b, err := stub.Render(context.Background(), []byte("scan-b"))
	require.NoError(t, err)
	require.NotEqual(t, a1, b)
}
