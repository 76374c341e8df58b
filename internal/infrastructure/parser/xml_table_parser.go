// Package parser internal/infrastructure/parser/xml_table_parser.go
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// tableDocument mirrors an NBP exchange table. The root element name is not
// checked, only its presence.
type tableDocument struct {
	XMLName     xml.Name
	ID          string            `xml:"numer_tabeli"`
	PublishedAt string            `xml:"data_publikacji"`
	Positions   []positionElement `xml:"pozycja"`
}

type positionElement struct {
	Name       string `xml:"nazwa_waluty"`
	Multiplier string `xml:"przelicznik"`
	Code       string `xml:"kod_waluty"`
	MidRate    string `xml:"kurs_sredni"`
}

// XMLTableParser parses NBP table XML into a RateTable
type XMLTableParser struct{}

// NewXMLTableParser creates a new parser
func NewXMLTableParser() *XMLTableParser {
	return &XMLTableParser{}
}

// Parse builds a RateTable from already decoded XML text.
// Any invalid position fails the whole document.
func (p *XMLTableParser) Parse(text string) (*entity.RateTable, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	// The text is UTF-8 already, whatever the declaration says
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc tableDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &entity.ParseError{Reason: "missing root element"}
		}
		return nil, &entity.ParseError{Reason: "malformed document", Err: err}
	}
	if err := checkTrailing(decoder); err != nil {
		return nil, err
	}

	publishedAt, err := parseDate(doc.PublishedAt)
	if err != nil {
		return nil, err
	}

	table := &entity.RateTable{
		ID:          strings.TrimSpace(doc.ID),
		PublishedAt: publishedAt,
		Rates:       make([]entity.Rate, 0, len(doc.Positions)),
	}

	for i, pos := range doc.Positions {
		rate, err := parsePosition(i+1, pos)
		if err != nil {
			return nil, err
		}
		table.Rates = append(table.Rates, rate)
	}

	return table, nil
}

// checkTrailing allows only whitespace, comments and processing
// instructions after the root element.
func checkTrailing(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &entity.ParseError{Reason: "malformed document", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return &entity.ParseError{Reason: "trailing content after root element"}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return &entity.ParseError{Reason: "trailing content after root element"}
			}
		}
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &entity.ParseError{Reason: "missing publication date"}
	}

	date, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, &entity.ParseError{Reason: fmt.Sprintf("invalid publication date %q", raw), Err: err}
	}

	// dateparse also reads unix timestamps, bare years and drops trailing text
	if layout, err := dateparse.ParseFormat(raw); err != nil || layout != dateLayout {
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return time.Time{}, &entity.ParseError{Reason: fmt.Sprintf("invalid publication date %q", raw), Err: err}
		}
	}

	return date, nil
}

func parsePosition(n int, pos positionElement) (entity.Rate, error) {
	code := strings.TrimSpace(pos.Code)
	if code == "" {
		return entity.Rate{}, &entity.ParseError{Reason: fmt.Sprintf("position %d: missing currency code", n)}
	}

	rate, err := parseDecimal(pos.MidRate)
	if err != nil {
		return entity.Rate{}, &entity.ParseError{
			Reason: fmt.Sprintf("position %d (%s): invalid mid rate %q", n, code, pos.MidRate),
			Err:    err,
		}
	}

	// NBP quotes some currencies per 100 or 10000 units
	if strings.TrimSpace(pos.Multiplier) != "" {
		multiplier, err := parseDecimal(pos.Multiplier)
		if err != nil {
			return entity.Rate{}, &entity.ParseError{
				Reason: fmt.Sprintf("position %d (%s): invalid multiplier %q", n, code, pos.Multiplier),
				Err:    err,
			}
		}
		if multiplier != 1 {
			rate /= multiplier
		}
	}

	return entity.Rate{
		Code: code,
		Name: strings.TrimSpace(pos.Name),
		Rate: rate,
	}, nil
}

// parseDecimal parses a positive, finite number that may use a decimal comma
func parseDecimal(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, errors.New("value is empty")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("value must be a positive number, got %v", v)
	}

	return v, nil
}
