package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var monthNamesPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// BRL formats values in Brazilian Portuguese with Real currency.
type BRL struct {
	printer *message.Printer
	symbol  string
}

// NewBRL creates a pt-BR formatter.
func NewBRL() *BRL {
	return &BRL{
		printer: message.NewPrinter(language.BrazilianPortuguese),
		symbol:  "R$",
	}
}

// Currency renders "R$ 1.234,56", or "-R$ 20,00" for negative amounts.
func (f *BRL) Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	digits := rounded.StringFixed(2)
	whole, cents := digits[:len(digits)-3], digits[len(digits)-2:]
	return sign + f.symbol + " " + f.group(whole) + "," + cents
}

// group inserts thousands separators into a string of digits. Values that fit
// an int64 go through the locale printer.
func (f *BRL) group(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return f.printer.Sprintf("%d", n)
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Date renders "<day> de <month>".
func (f *BRL) Date(t time.Time) string {
	return fmt.Sprintf("%d de %s", t.Day(), monthName(t.Month()))
}

// ShortDate renders "dd/mm/yy".
func (f *BRL) ShortDate(t time.Time) string {
	return t.Format("02/01/06")
}

// MonthYear renders "<month>, <year>".
func (f *BRL) MonthYear(p model.Period) string {
	return fmt.Sprintf("%s, %d", monthName(p.Month), p.Year)
}

// Percent renders "<n>%".
func (f *BRL) Percent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// NoTransactions returns the empty-highlight sentinel.
func (f *BRL) NoTransactions() string {
	return "Não há transações"
}

// LastEntry returns "Última entrada dia <date>".
func (f *BRL) LastEntry(t time.Time) string {
	return "Última entrada dia " + f.Date(t)
}

// LastExpense returns "Última saída dia <date>".
func (f *BRL) LastExpense(t time.Time) string {
	return "Última saída dia " + f.Date(t)
}

// Interval returns "01 a <date>".
func (f *BRL) Interval(t time.Time) string {
	return "01 a " + f.Date(t)
}

func monthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNamesPT[m-1]
}
