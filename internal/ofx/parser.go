// Package ofx imports bank and credit card statements from OFX/QFX files.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// IDPrefix is prepended to an OFX FITID to form a transaction ID.
const IDPrefix = "ofx-"

var (
	errMissingFITID = errors.New("missing FITID")
	errZeroAmount   = errors.New("zero amount")
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Options controls how statement lines become transactions.
type Options struct {
	// ExpenseCategory is assigned to debits.
	ExpenseCategory string
	// IncomeCategory is assigned to credits.
	IncomeCategory string
	// Categorizer, when set, overrides the default category of lines it
	// recognizes.
	Categorizer service.Categorizer
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
	opts   Options
}

// NewParser creates a new OFX parser. Empty categories default to
// "purchases" and "salary".
func NewParser(opts Options, logger *slog.Logger) *Parser {
	if opts.ExpenseCategory == "" {
		opts.ExpenseCategory = "purchases"
	}
	if opts.IncomeCategory == "" {
		opts.IncomeCategory = "salary"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{opts: opts, logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket on lone opening tags.
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns its transactions.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list []ofxgo.Transaction, accountID string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(list))
	for _, ofxTx := range list {
		tx, err := p.convertTransaction(ofxTx)
		if err != nil {
			p.logger.Warn("Skipping OFX transaction",
				"account", accountID,
				"fitid", string(ofxTx.FiTID),
				"error", err)
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions
}

// convertTransaction maps an OFX line to a transaction. OFX debits are
// negative; the stored amount is always the magnitude.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (model.Transaction, error) {
	fitID := strings.TrimSpace(string(ofxTx.FiTID))
	if fitID == "" {
		return model.Transaction{}, errMissingFITID
	}

	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsZero() {
		return model.Transaction{}, errZeroAmount
	}

	tx := model.Transaction{
		ID:       IDPrefix + fitID,
		Name:     p.extractName(ofxTx),
		Amount:   amount.Abs(),
		Type:     model.TypeIncome,
		Category: p.opts.IncomeCategory,
		Date:     ofxTx.DtPosted.Time,
	}
	if amount.IsNegative() {
		tx.Type = model.TypeExpense
		tx.Category = p.opts.ExpenseCategory
	}
	if tx.Name == "" {
		tx.Name = fmt.Sprintf("%v", ofxTx.TrnType)
	}
	if p.opts.Categorizer != nil {
		if category, ok := p.opts.Categorizer.Categorize(tx); ok {
			tx.Category = category
		}
	}

	if err := tx.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// extractName picks the cleanest description available.
func (p *Parser) extractName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"CHECK CARD ",
		"COMPRA CARTAO ",
		"COMPRA CARTÃO ",
		"COMPRA NO DEBITO ",
		"PAGAMENTO ",
	} {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "DD/MM " date stamp.
	if len(name) > 6 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE",
		"DEBITO", "CREDITO", "COMPRA", "PIX":
		return true
	}
	return false
}
