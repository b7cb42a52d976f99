// Package catalogio reads and writes product catalogs as CSV.
package catalogio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Header is the column layout of a catalog file.
var Header = []string{"id", "name", "price", "discount_percentage", "poster_pricing"}

// ErrBadHeader is returned when the first row is not Header.
var ErrBadHeader = errors.New("unexpected catalog header")

// RowError reports a malformed row. Line is 1-based and counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Read parses a catalog. Every product is validated.
func Read(r io.Reader) ([]model.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, err
	}
	for i, col := range Header {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, header[i], col)
		}
	}

	var products []model.Product
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		p, err := parseRecord(record)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		products = append(products, p)
	}
	return products, nil
}

// Write emits products in Header layout.
func Write(w io.Writer, products []model.Product) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, p := range products {
		if err := writer.Write([]string{
			p.ID,
			p.Name,
			p.Price.String(),
			p.DiscountPercentage.String(),
			FormatPosterPricing(p.PosterPricing),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ParsePosterPricing parses "A4=100;A3=150". An empty string yields nil.
func ParsePosterPricing(s string) (map[string]decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	pricing := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		size, price, ok := strings.Cut(pair, "=")
		size = strings.TrimSpace(size)
		if !ok || size == "" {
			return nil, fmt.Errorf("poster pricing entry %q: want SIZE=PRICE", pair)
		}
		if _, dup := pricing[size]; dup {
			return nil, fmt.Errorf("poster size %q listed twice", size)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return nil, fmt.Errorf("poster size %q: %w", size, err)
		}
		pricing[size] = d
	}
	return pricing, nil
}

// FormatPosterPricing is the inverse of ParsePosterPricing. Sizes are sorted.
func FormatPosterPricing(pricing map[string]decimal.Decimal) string {
	if len(pricing) == 0 {
		return ""
	}
	sizes := make([]string, 0, len(pricing))
	for size := range pricing {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)

	parts := make([]string, len(sizes))
	for i, size := range sizes {
		parts[i] = size + "=" + pricing[size].String()
	}
	return strings.Join(parts, ";")
}

func parseRecord(record []string) (model.Product, error) {
	p := model.Product{
		ID:   strings.TrimSpace(record[0]),
		Name: strings.TrimSpace(record[1]),
	}

	var err error
	if p.Price, err = parseDecimal(record[2]); err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	if p.DiscountPercentage, err = parseDecimal(record[3]); err != nil {
		return p, fmt.Errorf("discount_percentage: %w", err)
	}
	if p.PosterPricing, err = ParsePosterPricing(record[4]); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
