package format

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUTF8:
		return "utf-8"
	case encUTF16BigEndian:
		return "utf-16be"
	case encUTF16LittleEndian:
		return "utf-16le"
	case encUTF32BigEndian:
		return "utf-32be"
	case encUTF32LittleEndian:
		return "utf-32le"
	}
	return "unknown"
}

const stylesheetExt = ".css"

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32LE must be checked before
// UTF-16LE, their marks share first two bytes.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

func hasStylesheetExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), stylesheetExt)
}

// readHead returns up to n first bytes of the stream.
func readHead(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	l, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:l], nil
}

// isArchiveFile checks if file has zip extension and zip signature.
func isArchiveFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	// filetype needs at most 262 bytes to recognize anything
	head, err := readHead(file, 262)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

// isStylesheetFile checks file extension and detects encoding of the content.
func isStylesheetFile(path string) (bool, srcEncoding, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer file.Close()

	if !hasStylesheetExt(path) {
		return false, encUnknown, nil
	}

	head, err := readHead(file, 4)
	if err != nil {
		return false, encUnknown, err
	}
	return true, detectUTF(head), nil
}

// isStylesheetInArchive is isStylesheetFile for archive entries.
func isStylesheetInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !hasStylesheetExt(f.FileHeader.Name) {
		return false, encUnknown, nil
	}

	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	head, err := readHead(r, 4)
	if err != nil {
		return false, encUnknown, err
	}
	return true, detectUTF(head), nil
}

// selectReader returns reader which removes byte order mark and converts
// content to UTF-8.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUTF8, encUTF16BigEndian, encUTF16LittleEndian:
		// mark itself selects decoder
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder().Reader(r)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder().Reader(r)
	}
	return r
}

var reCharsetRule = regexp.MustCompile(`^@charset\s+["']([^"']+)["']\s*;`)

// decodeStylesheet reads stylesheet converting it to UTF-8. When there is no
// byte order mark leading @charset rule names encoding of the rest of the
// data. Rule naming anything but UTF-8 is dropped after conversion, result is
// always UTF-8. Unknown encoding labels are reported and data is used as is.
func decodeStylesheet(r io.Reader, enc srcEncoding, log *zap.Logger) ([]byte, error) {
	data, err := io.ReadAll(selectReader(r, enc))
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet: %w", err)
	}
	if enc != encUnknown {
		return data, nil
	}

	m := reCharsetRule.FindSubmatchIndex(data)
	if m == nil {
		return data, nil
	}
	label := string(data[m[2]:m[3]])
	if strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return data, nil
	}

	cr, err := charset.NewReaderLabel(label, bytes.NewReader(data[m[1]:]))
	if err != nil {
		log.Warn("Unsupported @charset, using data as is", zap.String("charset", label), zap.Error(err))
		return data, nil
	}
	decoded, err := io.ReadAll(cr)
	if err != nil {
		return nil, fmt.Errorf("unable to decode stylesheet from %s: %w", label, err)
	}
	log.Debug("Stylesheet converted to UTF-8", zap.String("charset", label))
	return decoded, nil
}
