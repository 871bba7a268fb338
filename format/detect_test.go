package format

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{EPUB, "EPUB"},
		{DOCX, "DOCX"},
		{ODT, "ODT"},
		{HTML, "HTML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	for _, f := range []Format{PDF, EPUB, DOCX, ODT, HTML} {
		if got := Detect("file" + f.Extension()); got != f {
			t.Errorf("Detect(%q) = %v, want %v", "file"+f.Extension(), got, f)
		}
	}
	if Unknown.Extension() != "" {
		t.Error("Unknown should have no extension")
	}
}

func TestFormat_Paginated(t *testing.T) {
	if !PDF.Paginated() {
		t.Error("PDF should be paginated")
	}
	for _, f := range []Format{Unknown, EPUB, DOCX, ODT, HTML} {
		if f.Paginated() {
			t.Errorf("%v should not be paginated", f)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"book.pdf", PDF},
		{"book.PDF", PDF},
		{"book.Pdf", PDF},
		{"book.epub", EPUB},
		{"book.docx", DOCX},
		{"book.odt", ODT},
		{"book.html", HTML},
		{"book.htm", HTML},
		{"book.xhtml", HTML},
		{"book.txt", Unknown},
		{"book", Unknown},
		{"", Unknown},
		{"/path/to/file.pdf", PDF},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"PDF magic bytes", []byte("%PDF-1.7\n"), PDF},
		{"PDF after leading junk", append(bytes.Repeat([]byte{0}, 100), "%PDF-1.4"...), PDF},
		{"PDF header too far in", append(bytes.Repeat([]byte{' '}, 2000), "%PDF-1.4"...), Unknown},
		{"ZIP needs inspection", []byte{'P', 'K', 0x03, 0x04, 0, 0}, Unknown},
		{"HTML with DOCTYPE", []byte("<!DOCTYPE html>\n<html>"), HTML},
		{"HTML with whitespace", []byte("  \n  <html><head>"), HTML},
		{"XHTML", []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`), HTML},
		{"plain XML", []byte(`<?xml version="1.0"?><feed/>`), Unknown},
		{"empty data", []byte{}, Unknown},
		{"text file", []byte("Hello, World!"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

// makeZIP builds an archive holding the named files.
func makeZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// mimetype first, like real containers
	if m, ok := files["mimetype"]; ok {
		w, err := zw.Create("mimetype")
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(m))
	}
	for name, body := range files {
		if name == "mimetype" {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"PDF", []byte("%PDF-1.4\n%%EOF"), PDF},
		{"HTML", []byte("<!DOCTYPE html>\n<html><body></body></html>"), HTML},
		{"text", []byte("Hello, World! This is plain text."), Unknown},
		{"EPUB", makeZIP(t, map[string]string{"mimetype": "application/epub+zip", "OEBPS/content.opf": ""}), EPUB},
		{"ODT", makeZIP(t, map[string]string{"mimetype": "application/vnd.oasis.opendocument.text", "content.xml": ""}), ODT},
		{"DOCX", makeZIP(t, map[string]string{"[Content_Types].xml": "", "word/document.xml": ""}), DOCX},
		{"other ZIP", makeZIP(t, map[string]string{"readme.txt": "hi"}), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_CorruptZIP(t *testing.T) {
	data := []byte{'P', 'K', 0x03, 0x04, 1, 2, 3}
	if _, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for truncated ZIP")
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	// content wins over a misleading name
	got, err := DetectFile(write("renamed.txt", []byte("%PDF-1.5\n")))
	if err != nil || got != PDF {
		t.Errorf("DetectFile(renamed.txt) = %v, %v; want PDF", got, err)
	}

	// inconclusive content falls back to the extension
	got, err = DetectFile(write("notes.docx", []byte("garbage")))
	if err != nil || got != DOCX {
		t.Errorf("DetectFile(notes.docx) = %v, %v; want DOCX", got, err)
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}

	_, err = DetectFile(dir)
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("expected directory error, got %v", err)
	}
}
