package docreader

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart = "word/document.xml"
)

var (
	// ErrNoDocumentPart is returned for zip files without a main document part.
	ErrNoDocumentPart = errors.New("docx: word/document.xml not found")

	// ErrMalformed is returned for DOCX data that is not a readable zip
	// archive or whose document part is not well-formed XML.
	ErrMalformed = errors.New("malformed docx")
)

func readDOCX(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrMalformed, err)
	}
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrMalformed, documentPart, err)
		}
		defer rc.Close()
		return bodyParagraphs(rc)
	}
	return nil, ErrNoDocumentPart
}

// bodyParagraphs returns the text of every top-level body paragraph. Table
// cells and text boxes are skipped. Tabs inside runs become "\t" and line
// breaks "\n"; tab stop definitions in paragraph properties are ignored.
func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		text       strings.Builder
		pDepth     int
		nested     int // open w:tbl and w:txbxContent elements
		runDepth   int
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrMalformed, documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "tbl", "txbxContent":
				nested++
			case "p":
				pDepth++
				if pDepth == 1 && nested == 0 {
					text.Reset()
				}
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if runDepth > 0 && collecting(pDepth, nested) {
					text.WriteByte('\t')
				}
			case "br", "cr":
				if collecting(pDepth, nested) {
					text.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "tbl", "txbxContent":
				nested--
			case "p":
				if pDepth == 1 && nested == 0 {
					paragraphs = append(paragraphs, text.String())
				}
				pDepth--
			case "r":
				runDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && collecting(pDepth, nested) {
				text.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func collecting(pDepth, nested int) bool {
	return pDepth == 1 && nested == 0
}
