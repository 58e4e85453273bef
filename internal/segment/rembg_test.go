package segment

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func cutoutPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p := y*img.Stride + x*4
			img.Pix[p] = 200
			if x < 2 {
				img.Pix[p+3] = 255 // объект слева
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRembgClient_Segment(t *testing.T) {
	payload := cutoutPNG(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/remove", r.URL.Path)
		require.Equal(t, "u2net", r.URL.Query().Get("model"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		_, _, err = image.Decode(file)
		require.NoError(t, err, "uploaded payload must be a decodable image")

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	cli := NewRembgClient(srv.URL, "u2net", zerolog.Nop())
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	mask, err := cli.Segment(context.Background(), src)

	require.NoError(t, err)
	require.Equal(t, 4, mask.Bounds().Dx())
	require.Equal(t, 4, mask.Bounds().Dy())
	require.EqualValues(t, 255, mask.Pix[0], "left half is foreground")
	require.EqualValues(t, 0, mask.Pix[3], "right half is background")
}

func TestRembgClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cli := NewRembgClient(srv.URL, "", zerolog.Nop())

	_, err := cli.Segment(context.Background(), image.NewNRGBA(image.Rect(0, 0, 2, 2)))

	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestRembgClient_BrokenResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-an-image"))
	}))
	defer srv.Close()

	cli := NewRembgClient(srv.URL, "", zerolog.Nop())

	_, err := cli.Segment(context.Background(), image.NewNRGBA(image.Rect(0, 0, 2, 2)))

	require.Error(t, err)
}
