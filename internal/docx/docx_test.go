package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

const minimalTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`</Types>`

// buildPackage assembles a minimal word-processing package whose body text is
// wrapped in the usual run/paragraph markup.
func buildPackage(t *testing.T, body string) []byte {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml":          minimalTypes,
		"_rels/.rels":                  minimalRels,
		"word/_rels/document.xml.rels": minimalRels,
		"word/document.xml":            doc,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readPackagePart(t *testing.T, pkg []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	require.NoError(t, err)
	f, err := zr.Open(name)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func TestExtractTags(t *testing.T) {
	t.Run("duplicates collapse, first-seen order kept", func(t *testing.T) {
		pkg := buildPackage(t, "Yth. {NAMA}, NIK {NIK}, atas nama {NAMA}")
		assert.Equal(t, []string{"NAMA", "NIK"}, ExtractTags(pkg))
	})

	t.Run("internal whitespace disqualifies a tag", func(t *testing.T) {
		pkg := buildPackage(t, "{ NAMA } dan {ALAMAT}")
		assert.Equal(t, []string{"ALAMAT"}, ExtractTags(pkg))
	})

	t.Run("tag split across formatting runs is still found", func(t *testing.T) {
		pkg := buildPackage(t, `{NA</w:t></w:r><w:r><w:t>MA}`)
		assert.Equal(t, []string{"NAMA"}, ExtractTags(pkg))
	})

	t.Run("stable across invocations", func(t *testing.T) {
		pkg := buildPackage(t, "{B} {A} {C} {A}")
		first := ExtractTags(pkg)
		assert.Equal(t, first, ExtractTags(pkg))
		assert.Equal(t, []string{"B", "A", "C"}, first)
	})

	t.Run("corrupt package yields empty set", func(t *testing.T) {
		assert.Empty(t, ExtractTags([]byte("not a zip archive")))
	})

	t.Run("package without text part yields empty set", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("mimetype")
		require.NoError(t, err)
		w.Write([]byte("application/epub+zip"))
		require.NoError(t, zw.Close())
		assert.Empty(t, ExtractTags(buf.Bytes()))
	})
}

func TestMerge(t *testing.T) {
	t.Run("substitutes every tag occurrence", func(t *testing.T) {
		pkg := buildPackage(t, "Nama: {NAMA}, NIK: {NIK}, ttd {NAMA}")
		out, err := Merge(pkg, map[string]string{"NAMA": "BUDI SANTOSO", "NIK": "3201011708450001"}, nil)
		require.NoError(t, err)

		doc := readPackagePart(t, out, "word/document.xml")
		assert.NotContains(t, doc, "{NAMA}")
		assert.NotContains(t, doc, "{NIK}")
		assert.Contains(t, doc, "BUDI SANTOSO")
		assert.Contains(t, doc, "3201011708450001")
	})

	t.Run("tag split across formatting runs is substituted", func(t *testing.T) {
		pkg := buildPackage(t, `Yth. {NA</w:t></w:r><w:r><w:t>MA}, hormat kami`)
		out, err := Merge(pkg, map[string]string{"NAMA": "BUDI"}, nil)
		require.NoError(t, err)

		doc := readPackagePart(t, out, "word/document.xml")
		assert.Contains(t, doc, "BUDI")
		assert.NotContains(t, doc, "{NA")
		assert.NotContains(t, doc, "MA}")
		assert.Empty(t, ExtractTags(out))
	})

	t.Run("tag split across runs still demands a value", func(t *testing.T) {
		pkg := buildPackage(t, `{NA</w:t></w:r><w:r><w:t>MA}`)
		out, err := Merge(pkg, map[string]string{}, nil)
		assert.Nil(t, out)

		var missing *MissingValueError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "NAMA", missing.Tag)
	})

	t.Run("missing value fails naming the tag, nothing produced", func(t *testing.T) {
		pkg := buildPackage(t, "{NAMA} {NIK}")
		out, err := Merge(pkg, map[string]string{"NAMA": "BUDI"}, nil)
		assert.Nil(t, out)

		var missing *MissingValueError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "NIK", missing.Tag)
	})

	t.Run("values are XML escaped", func(t *testing.T) {
		pkg := buildPackage(t, "{KETERANGAN}")
		out, err := Merge(pkg, map[string]string{"KETERANGAN": `Usaha "A & B" <skala kecil>`}, nil)
		require.NoError(t, err)
		doc := readPackagePart(t, out, "word/document.xml")
		assert.Contains(t, doc, "Usaha &quot;A &amp; B&quot; &lt;skala kecil&gt;")
	})

	t.Run("corrupt package fails", func(t *testing.T) {
		_, err := Merge([]byte("junk"), nil, nil)
		assert.Error(t, err)
	})

	t.Run("untouched parts are carried over", func(t *testing.T) {
		pkg := buildPackage(t, "{NAMA}")
		out, err := Merge(pkg, map[string]string{"NAMA": "ANI"}, nil)
		require.NoError(t, err)
		assert.Equal(t, minimalRels, readPackagePart(t, out, "_rels/.rels"))
	})
}

func TestMergeQR(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

	t.Run("reserved tag becomes an embedded image", func(t *testing.T) {
		pkg := buildPackage(t, "Surat untuk {NAMA}. {QR_CODE}")
		out, err := Merge(pkg, map[string]string{"NAMA": "BUDI"}, &ImageRef{PNG: png})
		require.NoError(t, err)

		doc := readPackagePart(t, out, "word/document.xml")
		assert.NotContains(t, doc, "{QR_CODE}")
		assert.Contains(t, doc, "<w:drawing>")
		assert.Contains(t, doc, `r:embed="rIdQRVerify"`)
		// 100 px square at 9525 EMU per pixel.
		assert.Contains(t, doc, `cx="952500" cy="952500"`)

		assert.Equal(t, string(png), readPackagePart(t, out, "word/media/qr.png"))
		assert.Contains(t, readPackagePart(t, out, "word/_rels/document.xml.rels"), `Id="rIdQRVerify"`)
		assert.Contains(t, readPackagePart(t, out, "[Content_Types].xml"), `Extension="png"`)
	})

	t.Run("explicit size wins over the default", func(t *testing.T) {
		pkg := buildPackage(t, "{QR_CODE}")
		out, err := Merge(pkg, nil, &ImageRef{PNG: png, SizePx: 150})
		require.NoError(t, err)
		doc := readPackagePart(t, out, "word/document.xml")
		assert.Contains(t, doc, `cx="1428750"`)
	})

	t.Run("nil image ref makes the QR tag an ordinary tag", func(t *testing.T) {
		pkg := buildPackage(t, "{QR_CODE}")
		_, err := Merge(pkg, map[string]string{}, nil)

		var missing *MissingValueError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "QR_CODE", missing.Tag)

		out, err := Merge(pkg, map[string]string{"QR_CODE": "-"}, nil)
		require.NoError(t, err)
		assert.Contains(t, readPackagePart(t, out, "word/document.xml"), ">-<")
	})

	t.Run("reserved tag split across runs still embeds", func(t *testing.T) {
		pkg := buildPackage(t, `{QR_</w:t></w:r><w:r><w:t>CODE}`)
		out, err := Merge(pkg, nil, &ImageRef{PNG: png})
		require.NoError(t, err)

		doc := readPackagePart(t, out, "word/document.xml")
		assert.Contains(t, doc, "<w:drawing>")
		assert.NotContains(t, doc, "{QR_")
		assert.NotContains(t, doc, "CODE}")
	})

	t.Run("merged package is still readable by the extractor", func(t *testing.T) {
		pkg := buildPackage(t, "{NAMA} {QR_CODE}")
		out, err := Merge(pkg, map[string]string{"NAMA": "ANI"}, &ImageRef{PNG: png})
		require.NoError(t, err)
		assert.Empty(t, ExtractTags(out))
		assert.False(t, strings.Contains(readPackagePart(t, out, "word/document.xml"), "{"))
	})
}

func TestMissingValueError(t *testing.T) {
	err := error(&MissingValueError{Tag: "ALAMAT"})
	assert.Equal(t, "no value submitted for tag {ALAMAT}", err.Error())
	var target *MissingValueError
	assert.True(t, errors.As(err, &target))
}
