package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// QRTag is the reserved placeholder resolved to an embedded verification
// image instead of submitted text.
const QRTag = "QR_CODE"

const (
	relsPart         = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"
	qrMediaPart      = "word/media/qr.png"
	qrRelID          = "rIdQRVerify"

	// emuPerPixel converts pixel sizes to English Metric Units at 96 dpi.
	emuPerPixel = 9525
)

// DefaultImageSize is the square edge, in pixels, at which the verification
// image is placed into the document.
const DefaultImageSize = 100

// ImageRef carries the PNG embedded in place of the QR tag. A zero SizePx
// falls back to DefaultImageSize.
type ImageRef struct {
	PNG    []byte
	SizePx int
}

func (r *ImageRef) size() int {
	if r.SizePx > 0 {
		return r.SizePx
	}
	return DefaultImageSize
}

// MissingValueError reports a template tag with no submitted value. The merge
// is all-or-nothing: one missing value fails the whole document.
type MissingValueError struct {
	Tag string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no value submitted for tag {%s}", e.Tag)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// textNodePattern captures the inner text of a w:t element. Tags are located
// over the concatenation of these, matching what extraction sees.
var textNodePattern = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)

// textSpan maps one text node's content to its slice of the concatenated text.
type textSpan struct {
	docStart, docEnd     int
	plainStart, plainEnd int
}

type spanEdit struct {
	lo, hi int
	text   string
}

// Merge fills a template package with submitted values and returns the final
// document bytes. Word processors split runs freely, so tags are matched over
// the joined text-node content and a tag spanning several runs is still
// substituted: the value lands in the first run it touches and the covered
// characters of the following runs are dropped. Every tag occurrence must
// have a value, otherwise the merge fails with a MissingValueError and
// nothing is produced. When img is non-nil, the reserved QR tag is replaced
// with an embedded PNG sized to a fixed square; with a nil img the QR tag is
// treated like any other tag and needs a submitted value.
func Merge(pkg []byte, values map[string]string, img *ImageRef) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil, fmt.Errorf("open template package: %w", err)
	}
	doc, err := readPart(zr, documentPart)
	if err != nil {
		return nil, fmt.Errorf("template package has no text part: %w", err)
	}

	merged, embedQR, err := mergeDocument(doc, values, img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	wroteRels := false
	for _, f := range zr.File {
		var content []byte
		switch {
		case f.Name == documentPart:
			content = []byte(merged)
		case f.Name == relsPart && embedQR:
			raw, err := readPart(zr, f.Name)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Name, err)
			}
			content = []byte(addImageRelationship(raw))
			wroteRels = true
		case f.Name == contentTypesPart && embedQR:
			raw, err := readPart(zr, f.Name)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Name, err)
			}
			content = []byte(addPNGContentType(raw))
		default:
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Name, err)
			}
			content, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Name, err)
			}
		}
		if err := writeEntry(zw, f.Name, content); err != nil {
			return nil, err
		}
	}
	if embedQR {
		if !wroteRels {
			rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
				`</Relationships>`
			if err := writeEntry(zw, relsPart, []byte(addImageRelationship(rels))); err != nil {
				return nil, err
			}
		}
		if err := writeEntry(zw, qrMediaPart, img.PNG); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

// mergeDocument substitutes tag values across the text nodes of the document
// part and reports whether a QR image placement was produced.
func mergeDocument(doc string, values map[string]string, img *ImageRef) (string, bool, error) {
	nodes := textNodePattern.FindAllStringSubmatchIndex(doc, -1)
	spans := make([]textSpan, 0, len(nodes))
	var plain strings.Builder
	for _, n := range nodes {
		start, end := n[2], n[3]
		spans = append(spans, textSpan{
			docStart:   start,
			docEnd:     end,
			plainStart: plain.Len(),
			plainEnd:   plain.Len() + (end - start),
		})
		plain.WriteString(doc[start:end])
	}
	text := plain.String()

	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return doc, false, nil
	}

	embedQR := false
	edits := make(map[int][]spanEdit)
	for _, m := range matches {
		name := text[m[2]:m[3]]
		var rep string
		if name == QRTag && img != nil {
			rep = inlineImageXML(img.size())
			embedQR = true
		} else {
			v, ok := values[name]
			if !ok {
				return "", false, &MissingValueError{Tag: name}
			}
			rep = xmlEscaper.Replace(v)
		}
		// The replacement goes into the first node the tag touches; the
		// tag's characters in later nodes are removed.
		first := true
		for i, sp := range spans {
			if sp.plainEnd <= m[0] || sp.plainStart >= m[1] {
				continue
			}
			e := spanEdit{lo: max(m[0], sp.plainStart) - sp.plainStart, hi: min(m[1], sp.plainEnd) - sp.plainStart}
			if first {
				e.text = rep
				first = false
			}
			edits[i] = append(edits[i], e)
		}
	}

	// Matches are ascending and non-overlapping, so per-node edits apply
	// cleanly back to front.
	var out strings.Builder
	prev := 0
	for i, sp := range spans {
		out.WriteString(doc[prev:sp.docStart])
		inner := doc[sp.docStart:sp.docEnd]
		es := edits[i]
		for j := len(es) - 1; j >= 0; j-- {
			inner = inner[:es[j].lo] + es[j].text + inner[es[j].hi:]
		}
		out.WriteString(inner)
		prev = sp.docEnd
	}
	out.WriteString(doc[prev:])
	return out.String(), embedQR, nil
}

func writeEntry(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func addImageRelationship(rels string) string {
	rel := fmt.Sprintf(`<Relationship Id=%q Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/qr.png"/>`, qrRelID)
	return strings.Replace(rels, "</Relationships>", rel+"</Relationships>", 1)
}

func addPNGContentType(types string) string {
	if strings.Contains(types, `Extension="png"`) {
		return types
	}
	def := `<Default Extension="png" ContentType="image/png"/>`
	return strings.Replace(types, "</Types>", def+"</Types>", 1)
}

// inlineImageXML closes the surrounding text element, places an inline drawing
// in the same run, and reopens the text element so the rest of the run
// survives intact.
func inlineImageXML(sizePx int) string {
	emu := sizePx * emuPerPixel
	return `</w:t><w:drawing>` +
		fmt.Sprintf(`<wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="%d" cy="%d"/>`, emu, emu) +
		`<wp:docPr id="1001" name="QRVerify"/>` +
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:nvPicPr><pic:cNvPr id="1001" name="qr.png"/><pic:cNvPicPr/></pic:nvPicPr>` +
		fmt.Sprintf(`<pic:blipFill><a:blip r:embed=%q xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, qrRelID) +
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/>` +
		fmt.Sprintf(`<a:ext cx="%d" cy="%d"/></a:xfrm>`, emu, emu) +
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing><w:t>`
}
