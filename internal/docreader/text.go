package docreader

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the character set of a text document.
type Encoding string

const (
	EncodingAuto    Encoding = "auto"
	EncodingUTF8    Encoding = "utf-8"
	EncodingGB18030 Encoding = "gb18030"
	EncodingUTF16   Encoding = "utf-16"
)

// ParseEncoding accepts common spellings of the supported encodings.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "gb18030", "gbk", "gb2312":
		return EncodingGB18030, nil
	case "utf-16", "utf16":
		return EncodingUTF16, nil
	}
	return "", fmt.Errorf("%w: unknown encoding %q", ErrUnsupportedFormat, name)
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoder resolves enc for data. Auto detection honours a byte order mark,
// keeps valid UTF-8 as is, and otherwise assumes GB18030.
func decoder(data []byte, enc Encoding) (transform.Transformer, error) {
	switch enc {
	case "", EncodingAuto:
		switch {
		case bytes.HasPrefix(data, bomUTF8), bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
			return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
		case utf8.Valid(data):
			return unicode.UTF8.NewDecoder(), nil
		default:
			return simplifiedchinese.GB18030.NewDecoder(), nil
		}
	case EncodingUTF8:
		return unicode.UTF8BOM.NewDecoder(), nil
	case EncodingGB18030:
		return simplifiedchinese.GB18030.NewDecoder(), nil
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	}
	return nil, fmt.Errorf("%w: unknown encoding %q", ErrUnsupportedFormat, enc)
}

// readText returns one paragraph per line.
func readText(data []byte, enc Encoding) ([]string, error) {
	dec, err := decoder(data, enc)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(transform.NewReader(bytes.NewReader(data), dec))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var paragraphs []string
	for sc.Scan() {
		paragraphs = append(paragraphs, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	return paragraphs, nil
}
