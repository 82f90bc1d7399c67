package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxImageSide = 2000
	DefaultPDFConverter = "pdftoppm"
	DefaultPDFDPI       = 200

	PDFModeRender   = "render"
	PDFModeDocument = "document"

	mediaTypePNG = "image/png"
	mediaTypePDF = "application/pdf"
)

var mediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  mediaTypePNG,
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".pdf":  mediaTypePDF,
}

// MediaType maps a file extension to the media type sent to the model.
// Unknown extensions fall back to image/jpeg.
func MediaType(ext string) string {
	if mt, ok := mediaTypes[strings.ToLower(ext)]; ok {
		return mt
	}

	return "image/jpeg"
}

// Media is a file ready to be attached to a model request.
type Media struct {
	Data      []byte
	MediaType string
	Format    string
}

type PreparerConfig struct {
	MaxImageSide int
	PDFMode      string
	PDFConverter string
	PDFDPI       int
}

// Preparer turns receipt files into model-ready media: oversized images are
// downscaled, BMP is converted to PNG, and PDFs are either rendered to a PNG
// of their first page or passed through as documents.
type Preparer struct {
	log    *slog.Logger
	cfg    PreparerConfig
	runner CommandRunner
}

func NewPreparer(log *slog.Logger, cfg PreparerConfig, runner CommandRunner) *Preparer {
	if cfg.MaxImageSide <= 0 {
		cfg.MaxImageSide = DefaultMaxImageSide
	}
	if cfg.PDFMode == "" {
		cfg.PDFMode = PDFModeRender
	}
	if cfg.PDFConverter == "" {
		cfg.PDFConverter = DefaultPDFConverter
	}
	if cfg.PDFDPI <= 0 {
		cfg.PDFDPI = DefaultPDFDPI
	}

	return &Preparer{
		log:    log,
		cfg:    cfg,
		runner: runner,
	}
}

func (p *Preparer) Prepare(ctx context.Context, file *domain.ReceiptFile) (*Media, error) {
	switch file.Kind {
	case domain.FileKindImage:
		data, err := file.ReadContent()
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return p.prepareImage(data, strings.TrimPrefix(file.Ext, "."))
	case domain.FileKindPDF:
		if p.cfg.PDFMode == PDFModeDocument {
			data, err := file.ReadContent()
			if err != nil {
				return nil, fmt.Errorf("failed to read file: %w", err)
			}
			return &Media{Data: data, MediaType: mediaTypePDF, Format: "pdf"}, nil
		}
		return p.renderPDF(ctx, file)
	default:
		return nil, fmt.Errorf("unsupported file format %q", file.Ext)
	}
}

func (p *Preparer) prepareImage(data []byte, format string) (*Media, error) {
	cfg, decodedFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	if decodedFormat != "bmp" && max(cfg.Width, cfg.Height) <= p.cfg.MaxImageSide {
		return &Media{Data: data, MediaType: MediaType("." + format), Format: format}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	out, err := encodePNG(resize(img, p.cfg.MaxImageSide))
	if err != nil {
		return nil, err
	}

	return &Media{Data: out, MediaType: mediaTypePNG, Format: "png"}, nil
}

func (p *Preparer) renderPDF(ctx context.Context, file *domain.ReceiptFile) (*Media, error) {
	dir, err := os.MkdirTemp("", "receipt-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.log.WarnContext(ctx, "failed to remove temp dir", slog.String("err", err.Error()))
		}
	}()

	prefix := filepath.Join(dir, "page")
	args := []string{
		"-png",
		"-r", fmt.Sprint(p.cfg.PDFDPI),
		"-f", "1",
		"-l", "1",
		"-singlefile",
		file.Path,
		prefix,
	}

	_, stderr, err := p.runner.Run(ctx, p.cfg.PDFConverter, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w: %s", err, truncate(string(stderr), 500))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("pdf converter produced no pages")
		}
		return nil, fmt.Errorf("failed to read rendered page: %w", err)
	}

	return p.prepareImage(data, "png")
}

// resize scales img so that its longest side is at most maxSide.
func resize(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	longest := max(w, h)
	if longest <= maxSide {
		return img
	}

	nw := max(1, w*maxSide/longest)
	nh := max(1, h*maxSide/longest)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}
