// Package format identifies document files before they are handed to a
// renderer, so that a non-PDF file fails with a clear message instead of a
// parse error deep inside the PDF reader.
package format

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// EPUB indicates an EPUB e-book.
	EPUB
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// HTML indicates an HTML document.
	HTML
)

// headerWindow is how far into a file the PDF header may appear. Readers
// accept some leading garbage before %PDF-.
const headerWindow = 1024

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case EPUB:
		return "EPUB"
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case EPUB:
		return ".epub"
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// Paginated reports whether documents of this format can be opened in the
// reader.
func (f Format) Paginated() bool {
	return f == PDF
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".epub":
		return EPUB
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".html", ".htm", ".xhtml":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. ZIP containers
// need DetectFromReader to tell EPUB, DOCX and ODT apart and report Unknown
// here.
func DetectFromMagic(data []byte) Format {
	if hasPDFHeader(data) {
		return PDF
	}
	if isZIP(data) {
		return Unknown
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

func hasPDFHeader(data []byte) bool {
	if len(data) > headerWindow {
		data = data[:headerWindow]
	}
	return bytes.Contains(data, []byte("%PDF-"))
}

func isZIP(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte{'P', 'K', 0x03, 0x04})
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"), strings.HasPrefix(upper, "<HTML"):
		return true
	case strings.HasPrefix(upper, "<?XML"):
		// XHTML
		return strings.Contains(upper, "<HTML")
	}
	return false
}

// DetectFromReader inspects the content to determine format.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, headerWindow)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case isZIP(magic):
		return detectZIPFormat(r, size)
	case hasPDFHeader(magic):
		return PDF, nil
	case detectHTMLMagic(magic):
		return HTML, nil
	}
	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive to determine the container format.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()

		mime := string(data[:n])
		switch {
		case strings.Contains(mime, "application/epub+zip"):
			return EPUB, nil
		case strings.Contains(mime, "application/vnd.oasis.opendocument.text"):
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return DOCX, nil
		}
	}

	return Unknown, nil
}

// DetectFile sniffs the file at path, falling back to its extension when
// the content is not conclusive.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	if info.IsDir() {
		return Unknown, fmt.Errorf("%s is a directory", path)
	}

	got, err := DetectFromReader(f, info.Size())
	if err != nil {
		return Unknown, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if got == Unknown {
		got = Detect(path)
	}
	return got, nil
}
