package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableXML = `<?xml version="1.0" encoding="ISO-8859-2"?>
<tabela_kursow typ="A" uid="24a201">
  <numer_tabeli>201/A/NBP/2024</numer_tabeli>
  <data_publikacji>2024-10-15</data_publikacji>
  <pozycja>
    <nazwa_waluty>euro</nazwa_waluty>
    <przelicznik>1</przelicznik>
    <kod_waluty>EUR</kod_waluty>
    <kurs_sredni>4,3215</kurs_sredni>
  </pozycja>
  <pozycja>
    <nazwa_waluty>dolar amerykański</nazwa_waluty>
    <przelicznik>1</przelicznik>
    <kod_waluty>USD</kod_waluty>
    <kurs_sredni>3,9605</kurs_sredni>
  </pozycja>
  <pozycja>
    <nazwa_waluty>forint (Węgry)</nazwa_waluty>
    <przelicznik>100</przelicznik>
    <kod_waluty>HUF</kod_waluty>
    <kurs_sredni>1,0750</kurs_sredni>
  </pozycja>
</tabela_kursow>`

func TestParse(t *testing.T) {
	p := NewXMLTableParser()

	t.Run("NBP table", func(t *testing.T) {
		table, err := p.Parse(tableXML)

		require.NoError(t, err)
		assert.Equal(t, "201/A/NBP/2024", table.ID)
		assert.Equal(t, time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC), table.PublishedAt)
		require.Len(t, table.Rates, 3)

		// document order is kept
		assert.Equal(t, entity.Rate{Code: "EUR", Name: "euro", Rate: 4.3215}, table.Rates[0])
		assert.Equal(t, entity.Rate{Code: "USD", Name: "dolar amerykański", Rate: 3.9605}, table.Rates[1])

		// quoted per 100 units, stored per unit
		assert.Equal(t, "HUF", table.Rates[2].Code)
		assert.InDelta(t, 0.01075, table.Rates[2].Rate, 1e-12)
	})

	t.Run("Decimal comma", func(t *testing.T) {
		table, err := p.Parse(`<t><data_publikacji>2024-10-15</data_publikacji>
			<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>4,3215</kurs_sredni></pozycja></t>`)

		require.NoError(t, err)
		assert.Equal(t, 4.3215, table.Rates[0].Rate)
	})

	t.Run("Decimal point accepted", func(t *testing.T) {
		table, err := p.Parse(`<t><data_publikacji>2024-10-15</data_publikacji>
			<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni> 4.32 </kurs_sredni></pozycja></t>`)

		require.NoError(t, err)
		assert.Equal(t, 4.32, table.Rates[0].Rate)
	})

	t.Run("Missing optional fields default to empty", func(t *testing.T) {
		table, err := p.Parse(`<t><data_publikacji>2024-10-15</data_publikacji>
			<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>4,32</kurs_sredni></pozycja></t>`)

		require.NoError(t, err)
		assert.Equal(t, "", table.ID)
		assert.Equal(t, "", table.Rates[0].Name)
	})

	t.Run("Whitespace and comments after the root", func(t *testing.T) {
		table, err := p.Parse(tableXML + "\n<!-- end -->\n")

		require.NoError(t, err)
		assert.Len(t, table.Rates, 3)
	})

	t.Run("No positions", func(t *testing.T) {
		table, err := p.Parse(`<t><numer_tabeli>1/A/NBP/2024</numer_tabeli><data_publikacji>2024-01-02</data_publikacji></t>`)

		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
		assert.NotNil(t, table.Rates)
	})

	t.Run("Duplicates are kept", func(t *testing.T) {
		table, err := p.Parse(`<t><data_publikacji>2024-10-15</data_publikacji>
			<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>4,32</kurs_sredni></pozycja>
			<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>5,00</kurs_sredni></pozycja></t>`)

		require.NoError(t, err)
		assert.Len(t, table.Rates, 2)
		rate, ok := table.Lookup("EUR")
		assert.True(t, ok)
		assert.Equal(t, 4.32, rate.Rate)
	})
}

func TestParseErrors(t *testing.T) {
	p := NewXMLTableParser()

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{
			name:   "Empty document",
			input:  "",
			reason: "missing root element",
		},
		{
			name:   "Declaration only",
			input:  `<?xml version="1.0" encoding="ISO-8859-2"?>`,
			reason: "missing root element",
		},
		{
			name:   "Malformed",
			input:  `<t><data_publikacji>2024-10-15</data_publikacji>`,
			reason: "malformed document",
		},
		{
			name:   "Missing date",
			input:  `<t><numer_tabeli>1</numer_tabeli></t>`,
			reason: "missing publication date",
		},
		{
			name:   "Unparsable date",
			input:  `<t><data_publikacji>yesterday-ish</data_publikacji></t>`,
			reason: "invalid publication date",
		},
		{
			name:   "Unix timestamp as date",
			input:  `<t><data_publikacji>1234567890</data_publikacji></t>`,
			reason: "invalid publication date",
		},
		{
			name:   "Bare year as date",
			input:  `<t><data_publikacji>2024</data_publikacji></t>`,
			reason: "invalid publication date",
		},
		{
			name:   "Date with trailing text",
			input:  `<t><data_publikacji>2024-10-15 garbage</data_publikacji></t>`,
			reason: "invalid publication date",
		},
		{
			name: "Element after the root",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>4,32</kurs_sredni></pozycja></t>
				<pozycja><kod_waluty>USD</kod_waluty><kurs_sredni>oops</kurs_sredni></pozycja>`,
			reason: "trailing content after root element",
		},
		{
			name: "Garbage after the root",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>4,32</kurs_sredni></pozycja></t><<<garbage`,
			reason: "malformed document",
		},
		{
			name:   "Text after the root",
			input:  `<t><data_publikacji>2024-10-15</data_publikacji></t> leftover`,
			reason: "trailing content after root element",
		},
		{
			name: "One bad rate fails the whole table",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>4,32</kurs_sredni></pozycja>
				<pozycja><kod_waluty>USD</kod_waluty><kurs_sredni>n/a</kurs_sredni></pozycja>
				<pozycja><kod_waluty>CHF</kod_waluty><kurs_sredni>4,61</kurs_sredni></pozycja></t>`,
			reason: "position 2 (USD): invalid mid rate",
		},
		{
			name: "Missing rate",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty></pozycja></t>`,
			reason: "position 1 (EUR): invalid mid rate",
		},
		{
			name: "Zero rate",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>0,0000</kurs_sredni></pozycja></t>`,
			reason: "invalid mid rate",
		},
		{
			name: "Negative rate",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>-4,32</kurs_sredni></pozycja></t>`,
			reason: "invalid mid rate",
		},
		{
			name: "NaN rate",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>EUR</kod_waluty><kurs_sredni>NaN</kurs_sredni></pozycja></t>`,
			reason: "invalid mid rate",
		},
		{
			name: "Missing code",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><nazwa_waluty>euro</nazwa_waluty><kurs_sredni>4,32</kurs_sredni></pozycja></t>`,
			reason: "position 1: missing currency code",
		},
		{
			name: "Bad multiplier",
			input: `<t><data_publikacji>2024-10-15</data_publikacji>
				<pozycja><kod_waluty>HUF</kod_waluty><przelicznik>zero</przelicznik><kurs_sredni>1,07</kurs_sredni></pozycja></t>`,
			reason: "invalid multiplier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := p.Parse(tt.input)

			assert.Nil(t, table)
			var parseErr *entity.ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
			assert.Contains(t, parseErr.Reason, tt.reason)
		})
	}
}
