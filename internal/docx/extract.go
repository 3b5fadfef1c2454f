// Package docx reads and fills zip-based word-processing packages without
// touching local disk; callers hand it raw package bytes.
package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
)

// documentPart is the primary text part of a word-processing package.
const documentPart = "word/document.xml"

var (
	markupPattern = regexp.MustCompile(`<[^>]+>`)
	tagPattern    = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
)

// ExtractTags returns the distinct placeholder names found in the package's
// main text part, in first-seen order. Markup is stripped before scanning, so
// a tag split across formatting runs is still recognized. Braces with internal
// whitespace are not tags and are skipped. A package that cannot be opened or
// has no text part yields an empty set; the caller surfaces that as "no
// fields found" rather than an error.
func ExtractTags(pkg []byte) []string {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil
	}
	doc, err := readPart(zr, documentPart)
	if err != nil {
		return nil
	}

	plain := markupPattern.ReplaceAllString(doc, "")
	seen := make(map[string]struct{})
	var tags []string
	for _, m := range tagPattern.FindAllStringSubmatch(plain, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

func readPart(zr *zip.Reader, name string) (string, error) {
	f, err := zr.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
