// Package csvcodec converts inventory items to and from the dashboard's CSV
// interchange text.
//
// The format is deliberately naive: fields are joined and split on commas with
// no quoting or escaping. A value that contains a comma shifts every column
// after it, on both encode and decode. Switching to RFC 4180 quoting would
// change the file format that existing exports use, so it is not done here.
package csvcodec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"stockdash/models"
)

// Header is the first line of every export.
const Header = "Name,Category,Qty,Threshold,Location"

// Filename is the download name used for exports.
const Filename = "inventory.csv"

var (
	ErrEmptyName  = errors.New("name is empty")
	ErrNotNumeric = errors.New("quantity or threshold is not a number")
)

// RowError describes a line that was not turned into a draft.
type RowError struct {
	Line   int
	Raw    string
	Reason error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Reason)
}

func (e RowError) Unwrap() error {
	return e.Reason
}

// Result is the outcome of Decode. Drafts keep the order of the input lines.
type Result struct {
	Drafts   []models.Draft
	Rejected []RowError
	Headers  int
}

// Encode renders items as CSV text: the header, then one line per item.
// Lines are joined with "\n" and there is no trailing newline.
func Encode(items []models.InventoryItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, Header)
	for _, it := range items {
		lines = append(lines, strings.Join([]string{
			it.Name,
			it.Category,
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.Threshold),
			it.Location,
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// Decode splits text into candidate drafts. Header lines (first field equal
// to "Name", any case) and blank lines are skipped; rows with an empty name or
// a non-numeric quantity/threshold are rejected without stopping the decode.
func Decode(text string) Result {
	var res Result
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if IsHeader(fields[0]) {
			res.Headers++
			continue
		}

		draft, err := parseRow(fields)
		if err != nil {
			res.Rejected = append(res.Rejected, RowError{Line: i + 1, Raw: line, Reason: err})
			continue
		}
		res.Drafts = append(res.Drafts, draft)
	}
	return res
}

// IsHeader reports whether a first field marks the header row.
func IsHeader(first string) bool {
	return strings.EqualFold(strings.TrimSpace(first), "name")
}

func parseRow(fields []string) (models.Draft, error) {
	name := strings.TrimSpace(field(fields, 0))
	if name == "" {
		return models.Draft{}, ErrEmptyName
	}
	if len(fields) < 4 {
		return models.Draft{}, ErrNotNumeric
	}
	qty, err := Coerce(fields[2])
	if err != nil {
		return models.Draft{}, err
	}
	threshold, err := Coerce(fields[3])
	if err != nil {
		return models.Draft{}, err
	}
	return models.Draft{
		Name:      name,
		Category:  field(fields, 1),
		Quantity:  qty,
		Threshold: threshold,
		Location:  field(fields, 4),
	}, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// Coerce converts numeric text the way a browser's unary plus does, then
// insists on a finite integral result. Blank text is 0. Decimal and exponent
// forms ("7", " 7 ", "7.0", "1e2") and unsigned 0x/0o/0b integers ("0x10" is
// 16) are accepted. Anything else, including "1.5", "NaN", "Infinity", hex
// floats and digit separators, fails with ErrNotNumeric.
func Coerce(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	f, ok := parseNumber(s)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q out of range", ErrNotNumeric, raw)
	}
	return int(f), nil
}

func parseNumber(s string) (float64, bool) {
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			return float64(n), err == nil
		}
	}
	// ParseFloat also takes hex floats and "_" separators; unary plus does not.
	if strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
