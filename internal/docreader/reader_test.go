package docreader

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math">
  <w:body>
    <w:p><w:r><w:t>单选题</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">1．What color </w:t></w:r><w:r><w:t>is the sky?</w:t></w:r></w:p>
    <w:p/>
    <w:p><w:r><w:t>A.</w:t><w:tab/><w:t>Red</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
    <w:p>
      <w:r><w:t>B. Blue</w:t><w:br/><w:t>正确答案：B</w:t></w:r>
      <w:r><w:drawing><w:txbxContent><w:p><w:r><w:t>text box</w:t></w:r></w:p></w:txbxContent></w:drawing></w:r>
      <w:r><w:delText>deleted</w:delText></w:r>
      <m:oMath><m:r><m:t>x</m:t></m:r></m:oMath>
    </w:p>
  </w:body>
</w:document>`

func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadDOCX(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   docxBody,
	})

	got, err := Read(data, FormatDOCX, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"单选题",
		"1．What color is the sky?",
		"",
		"A.\tRed",
		"B. Blue\n正确答案：B",
	}, got)
}

func TestReadDOCXWithoutDocumentPart(t *testing.T) {
	data := buildDOCX(t, map[string]string{"word/other.xml": "<x/>"})
	_, err := Read(data, FormatDOCX, Options{})
	assert.ErrorIs(t, err, ErrNoDocumentPart)
}

func TestReadDOCXMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"truncated zip header", []byte("PK\x03\x04 not really a zip")},
		{"broken xml", buildDOCX(t, map[string]string{"word/document.xml": "<w:document><w:body>"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.data, FormatDOCX, Options{})
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReadDOCXIgnoresTabStops(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
      <w:r><w:t>A.</w:t><w:tab/><w:t>Red</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`
	got, err := Read(buildDOCX(t, map[string]string{"word/document.xml": body}), FormatDOCX, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A.\tRed"}, got)
}

func TestReadTextEncodings(t *testing.T) {
	const content = "单选题\r\n1．天空是什么颜色？\nA. 红\n正确答案：A"
	want := []string{"单选题", "1．天空是什么颜色？", "A. 红", "正确答案：A"}

	gb, err := simplifiedchinese.GB18030.NewEncoder().String(content)
	require.NoError(t, err)
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(content)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		enc  Encoding
	}{
		{"utf-8 auto", []byte(content), EncodingAuto},
		{"utf-8 bom auto", append([]byte{0xEF, 0xBB, 0xBF}, content...), EncodingAuto},
		{"utf-8 bom explicit", append([]byte{0xEF, 0xBB, 0xBF}, content...), EncodingUTF8},
		{"gb18030 auto", []byte(gb), EncodingAuto},
		{"gb18030 explicit", []byte(gb), EncodingGB18030},
		{"utf-16 auto", []byte(utf16), EncodingAuto},
		{"utf-16 explicit", []byte(utf16), EncodingUTF16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(tt.data, FormatText, Options{Encoding: tt.enc})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadTextUnknownEncoding(t *testing.T) {
	_, err := Read([]byte("x"), FormatText, Options{Encoding: "latin-9"})
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"bank.docx", FormatDOCX},
		{"BANK.DOCX", FormatDOCX},
		{"bank.txt", FormatText},
		{"notes.md", FormatText},
	}
	for _, tt := range tests {
		got, err := Detect(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := Detect("bank.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormatAndEncoding(t *testing.T) {
	f, err := ParseFormat("Word")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	enc, err := ParseEncoding("GBK")
	require.NoError(t, err)
	assert.Equal(t, EncodingGB18030, enc)

	enc, err = ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingAuto, enc)

	_, err = ParseEncoding("ebcdic")
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "bank.txt")
	require.NoError(t, os.WriteFile(txt, []byte("判断题\n1. 对吗\n正确答案：是\n"), 0o644))
	got, err := ReadFile(txt, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"判断题", "1. 对吗", "正确答案：是"}, got)

	docx := filepath.Join(dir, "bank.docx")
	require.NoError(t, os.WriteFile(docx, buildDOCX(t, map[string]string{"word/document.xml": docxBody}), 0o644))
	got, err = ReadFile(docx, Options{})
	require.NoError(t, err)
	assert.Len(t, got, 5)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"), Options{})
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "bank.rtf"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadFrom(t *testing.T) {
	got, err := ReadFrom(bytes.NewReader([]byte("a\nb")), FormatText, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}
