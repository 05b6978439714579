// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded media. Images are decoded to validate
// them, auto-rotated from their EXIF orientation, re-encoded without
// metadata and given a thumbnail. Videos are stored as received.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// URLPrefix is where uploads are served from.
const URLPrefix = "/uploads/"

// Thumbnail bounds and encoder quality.
const (
	ThumbWidth   = 400
	ThumbHeight  = 400
	ThumbPrefix  = "thumb_"
	jpegQuality  = 90
	DefaultLimit = 20 << 20
)

// MIME types accepted for upload.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
)

// Upload errors. Handlers report them as client errors.
var (
	ErrTooLarge    = errors.New("file is too large")
	ErrUnsupported = errors.New("unsupported file type")
	ErrInvalid     = errors.New("file is not a valid image")
	ErrEmpty       = errors.New("file is empty")
)

// Upload describes a stored file.
type Upload struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl,omitempty"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Processor stores uploads in one directory.
type Processor struct {
	uploadDir string
	maxBytes  int64
}

// NewProcessor creates a processor writing into uploadDir. maxBytes <= 0
// means DefaultLimit.
func NewProcessor(uploadDir string, maxBytes int64) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultLimit
	}
	return &Processor{uploadDir: uploadDir, maxBytes: maxBytes}
}

// MaxBytes is the upload size limit.
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// Save validates and stores the file read from r under a fresh uuid name.
func (p *Processor) Save(r io.Reader) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > p.maxBytes {
		return nil, ErrTooLarge
	}

	mimeType := DetectMimeType(data)
	switch {
	case IsImage(mimeType):
		return p.saveImage(data)
	case IsVideo(mimeType):
		return p.saveRaw(data, mimeType)
	default:
		return nil, ErrUnsupported
	}
}

func (p *Processor) saveImage(data []byte) (*Upload, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupported
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	processed, err := encodeImage(img, format)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	thumb, err := encodeImage(imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos), format)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	name := uuid.NewString() + extension(format)
	if err := p.write(name, processed); err != nil {
		return nil, err
	}
	if err := p.write(ThumbPrefix+name, thumb); err != nil {
		_ = p.Delete(name)
		return nil, err
	}

	bounds := img.Bounds()
	return &Upload{
		Name:     name,
		URL:      URLPrefix + name,
		ThumbURL: URLPrefix + ThumbPrefix + name,
		MimeType: formatToMimeType(format),
		Size:     int64(len(processed)),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

func (p *Processor) saveRaw(data []byte, mimeType string) (*Upload, error) {
	ext := ".mp4"
	if mimeType == MimeTypeWebM {
		ext = ".webm"
	}
	name := uuid.NewString() + ext
	if err := p.write(name, data); err != nil {
		return nil, err
	}
	return &Upload{
		Name:     name,
		URL:      URLPrefix + name,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

// Delete removes a stored file and its thumbnail. Missing files are ignored.
func (p *Processor) Delete(name string) error {
	for _, n := range []string{name, ThumbPrefix + name} {
		path, err := p.path(n)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting %s: %w", n, err)
		}
	}
	return nil
}

// path resolves name inside uploadDir, rejecting anything that escapes it.
func (p *Processor) path(name string) (string, error) {
	safe := filepath.Base(name)
	if safe == "." || safe == ".." || safe == "" || safe != name {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving upload directory: %w", err)
	}
	return filepath.Join(absBase, safe), nil
}

func (p *Processor) write(name string, data []byte) error {
	path, err := p.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	return nil
}

// DetectMimeType sniffs the MIME type of data, without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// IsImage reports whether mimeType is an image the processor can decode.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}

// IsVideo reports whether mimeType is a video stored as-is.
func IsVideo(mimeType string) bool {
	return mimeType == MimeTypeMP4 || mimeType == MimeTypeWebM
}

// readExifOrientation returns the EXIF orientation tag, or 1 (normal).
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes an EXIF orientation:
// 2 flip H, 3 rotate 180, 4 flip V, 5 transpose, 6 rotate 90 CW,
// 7 transverse, 8 rotate 90 CCW.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage re-encodes img. WebP has no pure Go encoder and becomes JPEG.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat names the image format of data, or "" when unsupported.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// extension is the file extension of the stored encoding of format.
func extension(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// formatToMimeType is the MIME type of the stored encoding of format.
func formatToMimeType(format string) string {
	switch format {
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "jpeg", "jpg", "webp":
		return MimeTypeJPEG
	default:
		return "application/octet-stream"
	}
}
