// Package imaging turns user-supplied pictures (payment proofs, catalog photos)
// into bounded JPEG data URLs that can be stored inline with the record.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

const (
	MiB = 1 << 20

	OutputMIME   = "image/jpeg"
	minDimension = 320
)

var (
	ErrNoFile     = errors.New("no image selected")
	ErrNotImage   = errors.New("file is not an image")
	ErrTooLarge   = errors.New("image exceeds the size limit")
	ErrUnreadable = errors.New("image could not be read")
	errDecode     = errors.New("image could not be decoded")
)

// IsValidation reports whether err is a user-input rejection.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoFile) || errors.Is(err, ErrNotImage) || errors.Is(err, ErrTooLarge)
}

type Evidence struct {
	DataURL      string  `json:"-"`
	MIME         string  `json:"mime"`
	OriginalSize int64   `json:"originalSize"`
	EncodedSize  int     `json:"encodedSize"`
	Compressed   bool    `json:"compressed"`
	Ratio        float64 `json:"ratio"`
}

type Processor struct {
	MaxUploadBytes int64
	MaxDimension   int
	TargetBytes    int
	Quality        int
	MinQuality     int

	sem *semaphore.Weighted
}

// PaymentProof accepts up to 10 MiB and aims for roughly 1 MiB of JPEG.
func PaymentProof(workers int) *Processor { return newProcessor(10*MiB, workers) }

// CatalogPhoto is the stricter admin upload preset.
func CatalogPhoto(workers int) *Processor { return newProcessor(5*MiB, workers) }

func newProcessor(maxUpload int64, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		MaxUploadBytes: maxUpload,
		MaxDimension:   1920,
		TargetBytes:    1 * MiB,
		Quality:        85,
		MinQuality:     40,
		sem:            semaphore.NewWeighted(int64(workers)),
	}
}

// Validate checks presence, declared type and size. It never reads past the
// first sniffing window, so nothing is decoded for a rejected upload.
func (p *Processor) Validate(u *Upload) error {
	if u == nil || u.Size <= 0 {
		return ErrNoFile
	}
	ct := strings.ToLower(strings.TrimSpace(u.ContentType))
	if ct == "" {
		sniffed, err := p.sniff(u)
		if err != nil {
			return err
		}
		ct = sniffed
	}
	if !strings.HasPrefix(ct, "image/") {
		return ErrNotImage
	}
	if u.Size > p.MaxUploadBytes {
		return fmt.Errorf("%w (%d MB max)", ErrTooLarge, p.MaxUploadBytes/MiB)
	}
	return nil
}

func (p *Processor) sniff(u *Upload) (string, error) {
	rc, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer rc.Close()
	m, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return m.String(), nil
}

// Process validates, reads, compresses and encodes the upload. A successful
// re-encode is always stored, even when it is not smaller, so the stored image
// is bounded JPEG. A compression failure is not an error: the original bytes
// are encoded instead.
func (p *Processor) Process(ctx context.Context, u *Upload) (Evidence, error) {
	if err := p.Validate(u); err != nil {
		return Evidence{}, err
	}
	data, err := p.read(u)
	if err != nil {
		return Evidence{}, err
	}

	ev := Evidence{OriginalSize: int64(len(data))}
	out, err := p.compressBounded(ctx, data)
	switch {
	case err == nil:
		ev.MIME, ev.Compressed = OutputMIME, true
	case ctx.Err() != nil:
		return Evidence{}, ctx.Err()
	default:
		out = data
		ev.MIME = originalMIME(u, data)
	}
	ev.EncodedSize = len(out)
	ev.Ratio = float64(len(out)) / float64(len(data))
	ev.DataURL = Encode(out, ev.MIME)
	return ev, nil
}

func (p *Processor) read(u *Upload) ([]byte, error) {
	rc, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, p.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if int64(len(data)) > p.MaxUploadBytes {
		return nil, fmt.Errorf("%w (%d MB max)", ErrTooLarge, p.MaxUploadBytes/MiB)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	return data, nil
}

func (p *Processor) compressBounded(ctx context.Context, data []byte) ([]byte, error) {
	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer p.sem.Release(1)
	}
	return p.Compress(data)
}

// Compress re-encodes data as JPEG with the longest edge at most MaxDimension,
// stepping quality and then size down until the output fits TargetBytes. If the
// floor is reached first, the smallest attempt is returned.
func (p *Processor) Compress(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecode, err)
	}

	var buf bytes.Buffer
	dim := p.MaxDimension
	for {
		scaled := fit(src, dim)
		for q := p.Quality; q >= p.MinQuality; q -= 10 {
			buf.Reset()
			if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: q}); err != nil {
				return nil, err
			}
			if buf.Len() <= p.TargetBytes {
				return buf.Bytes(), nil
			}
		}
		next := dim * 3 / 4
		if next < minDimension {
			return buf.Bytes(), nil
		}
		dim = next
	}
}

// fit scales src so its longest edge is at most edge, flattening onto white.
func fit(src image.Image, edge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > edge || h > edge {
		if w >= h {
			h = h * edge / w
			w = edge
		} else {
			w = w * edge / h
			h = edge
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Encode produces a self-describing data URL.
func Encode(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func originalMIME(u *Upload, data []byte) string {
	if m := mimetype.Detect(data); strings.HasPrefix(m.String(), "image/") {
		return m.String()
	}
	if ct := strings.ToLower(strings.TrimSpace(u.ContentType)); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "application/octet-stream"
}
