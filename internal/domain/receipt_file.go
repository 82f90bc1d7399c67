package domain

import (
	"os"
	"path/filepath"
	"strings"
)

type FileKind string

const (
	FileKindImage       FileKind = "image"
	FileKindPDF         FileKind = "pdf"
	FileKindUnsupported FileKind = "unsupported"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
}

// ReceiptFile is a discovered input. Content is read on demand and never cached.
type ReceiptFile struct {
	Path string
	Name string
	Ext  string
	Kind FileKind
}

func NewReceiptFile(path string) (*ReceiptFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(abs))

	return &ReceiptFile{
		Path: abs,
		Name: filepath.Base(abs),
		Ext:  ext,
		Kind: KindByExtension(ext),
	}, nil
}

func KindByExtension(ext string) FileKind {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if _, ok := imageExtensions[ext]; ok {
		return FileKindImage
	}

	if ext == ".pdf" {
		return FileKindPDF
	}

	return FileKindUnsupported
}

func (f *ReceiptFile) Stem() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

func (f *ReceiptFile) Supported() bool {
	return f.Kind != FileKindUnsupported
}

func (f *ReceiptFile) ReadContent() ([]byte, error) {
	return os.ReadFile(f.Path)
}
