// Package sequence renders per-template document numbers from a format pattern
// and a running counter.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Substitution markers recognized in a number format pattern.
const (
	MarkerNumber = "[NOMOR]"
	MarkerMonth  = "[BULAN]"
	MarkerYear   = "[TAHUN]"
)

// DefaultPattern is assigned to newly uploaded templates.
const DefaultPattern = "145/[NOMOR]/DS/[BULAN]/[TAHUN]"

var romanMonths = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// RomanMonth returns the Roman-numeral form of m (I through XII).
func RomanMonth(m time.Month) string {
	return romanMonths[m-1]
}

// Format renders the candidate next number for a template and returns it with
// the candidate next counter value. counter is the last issued value; the
// rendered number uses counter+1, zero-padded to 3 digits. [BULAN] and [TAHUN]
// come from at, not from any persisted date. Each marker is substituted at most
// once, first occurrence only; markers not present in the pattern are simply
// absent from the output. Nothing is persisted here; the caller owns the
// counter and commits it only after a successful merge.
func Format(pattern string, counter int64, at time.Time) (string, int64) {
	next := counter + 1
	out := strings.Replace(pattern, MarkerNumber, fmt.Sprintf("%03d", next), 1)
	out = strings.Replace(out, MarkerMonth, RomanMonth(at.Month()), 1)
	out = strings.Replace(out, MarkerYear, strconv.Itoa(at.Year()), 1)
	return out, next
}
