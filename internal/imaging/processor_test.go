package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingUpload records how many times the body was opened.
func countingUpload(name, ct string, size int64, data []byte, opens *int) *Upload {
	return &Upload{
		Filename:    name,
		ContentType: ct,
		Size:        size,
		open: func() (io.ReadCloser, error) {
			*opens++
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng := rand.New(rand.NewSource(7))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, url string) (string, []byte) {
	t.Helper()
	require.True(t, strings.HasPrefix(url, "data:"))
	head, body, ok := strings.Cut(strings.TrimPrefix(url, "data:"), ";base64,")
	require.True(t, ok)
	raw, err := base64.StdEncoding.DecodeString(body)
	require.NoError(t, err)
	return head, raw
}

func TestValidate(t *testing.T) {
	p := PaymentProof(1)
	opens := 0

	assert.ErrorIs(t, p.Validate(nil), ErrNoFile)
	assert.ErrorIs(t, p.Validate(countingUpload("x.jpg", "image/jpeg", 0, nil, &opens)), ErrNoFile)
	assert.ErrorIs(t, p.Validate(countingUpload("x.pdf", "application/pdf", 10, []byte("%PDF-1.4"), &opens)), ErrNotImage)
	assert.NoError(t, p.Validate(countingUpload("x.jpg", "image/jpeg", 10*MiB, nil, &opens)))
	assert.ErrorIs(t, p.Validate(countingUpload("x.jpg", "image/jpeg", 10*MiB+1, nil, &opens)), ErrTooLarge)
	assert.Equal(t, 0, opens, "declared type is enough, nothing read")

	assert.ErrorIs(t, CatalogPhoto(1).Validate(countingUpload("x.jpg", "image/jpeg", 6*MiB, nil, &opens)), ErrTooLarge)
}

func TestValidate_SniffsWhenTypeMissing(t *testing.T) {
	p := PaymentProof(1)
	opens := 0
	img := tinyPNG(t)

	assert.NoError(t, p.Validate(countingUpload("proof", "", int64(len(img)), img, &opens)))
	assert.ErrorIs(t, p.Validate(countingUpload("proof", "", 5, []byte("hello"), &opens)), ErrNotImage)
	assert.Equal(t, 2, opens)
}

func TestProcess_OversizeRejectedBeforeCompression(t *testing.T) {
	p := PaymentProof(1)
	opens := 0
	u := countingUpload("big.jpg", "image/jpeg", 12*MiB, nil, &opens)

	_, err := p.Process(context.Background(), u)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, opens)
}

func TestProcess_Compresses(t *testing.T) {
	p := PaymentProof(2)
	raw := noisyJPEG(t, 2100, 1300)
	require.Less(t, int64(len(raw)), p.MaxUploadBytes)

	ev, err := p.Process(context.Background(), FromBytes("proof.jpg", "image/jpeg", raw))
	require.NoError(t, err)

	assert.True(t, ev.Compressed)
	assert.Equal(t, OutputMIME, ev.MIME)
	assert.Equal(t, int64(len(raw)), ev.OriginalSize)
	assert.Less(t, ev.EncodedSize, len(raw))
	assert.LessOrEqual(t, ev.EncodedSize, p.TargetBytes)
	assert.InDelta(t, float64(ev.EncodedSize)/float64(len(raw)), ev.Ratio, 1e-9)

	mime, out := decodeDataURL(t, ev.DataURL)
	assert.Equal(t, "image/jpeg", mime)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, p.MaxDimension)
	assert.LessOrEqual(t, cfg.Height, p.MaxDimension)
}

func TestProcess_FallsBackToOriginal(t *testing.T) {
	p := PaymentProof(1)
	junk := []byte("\x89PNG\r\n\x1a\n-not-really-a-png")

	ev, err := p.Process(context.Background(), FromBytes("proof.png", "image/png", junk))
	require.NoError(t, err)

	assert.False(t, ev.Compressed)
	assert.Equal(t, 1.0, ev.Ratio)
	mime, out := decodeDataURL(t, ev.DataURL)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, junk, out)
}

func TestProcess_ReencodesEvenWhenNotSmaller(t *testing.T) {
	p := PaymentProof(1)

	// a flat PNG compresses far better than any JPEG of the same pixels
	img := image.NewRGBA(image.Rect(0, 0, 2400, 1600))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	raw := buf.Bytes()

	ev, err := p.Process(context.Background(), FromBytes("blank.png", "image/png", raw))
	require.NoError(t, err)
	assert.True(t, ev.Compressed)
	assert.Equal(t, OutputMIME, ev.MIME)

	mime, out := decodeDataURL(t, ev.DataURL)
	assert.Equal(t, "image/jpeg", mime)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, p.MaxDimension, cfg.Width)
	assert.Equal(t, 1280, cfg.Height)

	// tiny inputs are re-encoded too
	ev, err = p.Process(context.Background(), FromBytes("dot.png", "image/png", tinyPNG(t)))
	require.NoError(t, err)
	assert.Equal(t, OutputMIME, ev.MIME)
	mime, _ = decodeDataURL(t, ev.DataURL)
	assert.Equal(t, "image/jpeg", mime)
}

func TestProcess_CancelledWhileWaitingForWorker(t *testing.T) {
	p := PaymentProof(1)
	require.True(t, p.sem.TryAcquire(1))
	defer p.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Process(ctx, FromBytes("dot.png", "image/png", tinyPNG(t)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aGk=", Encode([]byte("hi"), "image/png"))
}
