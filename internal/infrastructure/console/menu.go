// Package console is the interactive text front end
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/damon-houk/nbp-currency-converter/internal/application/service"
	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/nbp-currency-converter/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// ErrLoadAborted is returned when the startup fetch failed and the user declined a retry
var ErrLoadAborted = errors.New("exchange table could not be loaded")

const mainMenu = `
1. List rates
2. Convert
3. Look up rate
4. History
5. Reload table
0. Exit
> `

// Menu drives the session: one table load, then a loop over user choices
type Menu struct {
	exchange    *service.ExchangeService
	conversions *service.ConversionService
	in          *bufio.Scanner
	out         io.Writer
	logger      logger.Logger
}

// NewMenu creates a menu reading choices from in and writing to out
func NewMenu(exchange *service.ExchangeService, conversions *service.ConversionService, in io.Reader, out io.Writer, log logger.Logger) *Menu {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &Menu{
		exchange:    exchange,
		conversions: conversions,
		in:          bufio.NewScanner(in),
		out:         out,
		logger:      log,
	}
}

// Run loads the table and serves menu choices until exit or end of input.
// It returns ErrLoadAborted if no table could be loaded.
func (m *Menu) Run(ctx context.Context) error {
	if err := m.load(ctx); err != nil {
		return err
	}

	for {
		choice, ok := m.prompt(mainMenu)
		if !ok {
			m.logger.Info("Input closed, leaving menu", nil)
			return nil
		}

		actionCtx := middleware.WithRequestID(ctx, middleware.NewRequestID())
		switch choice {
		case "1":
			m.listRates()
		case "2":
			m.convert(actionCtx)
		case "3":
			m.lookup()
		case "4":
			m.history(actionCtx)
		case "5":
			m.reload(actionCtx)
		case "0":
			return nil
		case "":
		default:
			m.printf("Unknown option %q\n", choice)
		}
	}
}

func (m *Menu) load(ctx context.Context) error {
	for {
		m.printf("Fetching exchange rates from NBP...\n")

		table, err := m.exchange.FetchCurrentTable(ctx)
		if err == nil {
			m.printf("Loaded table %s published %s (%d rates)\n",
				table.ID, table.PublishedAt.Format("2006-01-02"), table.Len())
			return nil
		}

		m.printf("Error: %v\n", err)
		answer, ok := m.prompt("Retry? [y/N]: ")
		if !ok || !isYes(answer) {
			return fmt.Errorf("%w: %v", ErrLoadAborted, err)
		}
	}
}

func (m *Menu) listRates() {
	table := m.exchange.Table()

	m.printf("Table %s, %s, rates in %s\n", table.ID, table.PublishedAt.Format("2006-01-02"), entity.BaseCurrency)
	for _, rate := range table.Sorted() {
		m.printf("%-4s %-34s %s\n", rate.Code, rate.Name, fixed(rate.Rate, 4))
	}
}

func (m *Menu) convert(ctx context.Context) {
	from, ok := m.prompt("From (currency code, e.g. EUR): ")
	if !ok {
		return
	}
	to, ok := m.prompt("To (currency code): ")
	if !ok {
		return
	}
	rawAmount, ok := m.prompt("Amount: ")
	if !ok {
		return
	}

	amount, err := service.ParseAmount(rawAmount)
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}

	conversion, err := m.conversions.Convert(ctx, from, to, amount)
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}

	m.printf("%s %s = %s %s\n", decimal.NewFromFloat(conversion.Amount).String(), conversion.From,
		fixed(conversion.Result, 2), conversion.To)
}

func (m *Menu) lookup() {
	code, ok := m.prompt("Currency code: ")
	if !ok {
		return
	}

	rate, err := m.exchange.Lookup(code)
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}

	m.printf("1 %s = %s %s (%s)\n", rate.Code, fixed(rate.Rate, 4), entity.BaseCurrency, rate.Name)
}

func (m *Menu) history(ctx context.Context) {
	conversions, err := m.conversions.History(ctx)
	if err != nil {
		m.printf("Error: %v\n", err)
		return
	}

	if len(conversions) == 0 {
		m.printf("No conversions yet\n")
		return
	}

	for i, c := range conversions {
		m.printf("%d. %s %s = %s %s [%s]\n", i+1, decimal.NewFromFloat(c.Amount).String(), c.From,
			fixed(c.Result, 2), c.To, c.TableID)
	}
}

func (m *Menu) reload(ctx context.Context) {
	table, err := m.exchange.FetchCurrentTable(ctx)
	if err != nil {
		m.printf("Error: %v\nKeeping table %s\n", err, m.exchange.Table().ID)
		return
	}

	m.printf("Loaded table %s published %s (%d rates)\n",
		table.ID, table.PublishedAt.Format("2006-01-02"), table.Len())
}

// prompt writes the prompt and reads one trimmed line; false means input is exhausted
func (m *Menu) prompt(text string) (string, bool) {
	m.printf("%s", text)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes", "t", "tak":
		return true
	}
	return false
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
