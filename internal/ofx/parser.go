// Package ofx reads bank and credit card statements and turns them into the
// monthly spend history the forecaster consumes.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/aclindsa/ofxgo"
)

// Transaction is a statement line. Amount is signed: debits are negative.
type Transaction struct {
	Date      time.Time
	ID        string
	Name      string
	AccountID string
	Type      string
	Amount    float64
}

// IsSpend reports whether the transaction takes money out of the account.
func (t Transaction) IsSpend() bool {
	return t.Amount < 0
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX statement.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Transaction, error) {
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

	var transactions []Transaction

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			transactions = append(transactions,
				convertAll(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			transactions = append(transactions,
				convertAll(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", len(resp.Bank),
		"cc_statements", len(resp.CreditCard))

	return transactions, nil
}

func convertAll(txns []ofxgo.Transaction, accountID string) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		amount, _ := t.TrnAmt.Float64()
		name := string(t.Name)
		if t.Payee != nil && t.Payee.Name != "" {
			name = string(t.Payee.Name)
		}
		out = append(out, Transaction{
			ID:        string(t.FiTID),
			Date:      t.DtPosted.Time,
			Name:      strings.TrimSpace(name),
			AccountID: accountID,
			Type:      fmt.Sprintf("%v", t.TrnType),
			Amount:    amount,
		})
	}
	return out
}

// MonthlyTotals sums spend per calendar month (UTC), oldest first. Months
// with no spend between the first and last are included as zero so the
// series index stays a faithful time axis.
func MonthlyTotals(transactions []Transaction) []model.MonthlyTotal {
	sums := make(map[time.Time]float64)
	for _, t := range transactions {
		if !t.IsSpend() {
			continue
		}
		d := t.Date.UTC()
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[month] += -t.Amount
	}
	if len(sums) == 0 {
		return nil
	}

	months := make([]time.Time, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	var totals []model.MonthlyTotal
	for m := months[0]; !m.After(months[len(months)-1]); m = m.AddDate(0, 1, 0) {
		totals = append(totals, model.MonthlyTotal{
			Period: m.Format("2006-01"),
			Total:  roundCents(sums[m]),
		})
	}
	return totals
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
