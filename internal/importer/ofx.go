package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line that are missing their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// OFXReader reads OFX/QFX statements.
type OFXReader struct{}

// NewOFXReader creates a new OFX reader.
func NewOFXReader() *OFXReader {
	return &OFXReader{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Read parses bank and credit card statements. Rows are numbered in the
// order they appear in the file.
func (o *OFXReader) Read(ctx context.Context, r io.Reader) ([]model.RawTransaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var statements [][]ofxgo.Transaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			statements = append(statements, stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			statements = append(statements, stmt.BankTranList.Transactions)
		}
	}

	var rows []model.RawTransaction
	for _, txns := range statements {
		for _, ofxTx := range txns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows = append(rows, convertTransaction(ofxTx, len(rows)+1))
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(rows),
		"statements", len(statements))

	return rows, nil
}

// convertTransaction keeps the signed amount; OFX uses negative for debits.
func convertTransaction(ofxTx ofxgo.Transaction, row int) model.RawTransaction {
	txn := model.RawTransaction{
		Row:         row,
		Description: description(ofxTx),
	}

	if posted := ofxTx.DtPosted.Time; !posted.IsZero() {
		day := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)
		txn.Date = &day
	}

	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(4))
	if err != nil {
		txn.ParseErr = fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	} else {
		txn.Amount = amount
	}

	return txn
}

// description prefers NAME, then PAYEE, then MEMO.
func description(tx ofxgo.Transaction) string {
	if name := strings.TrimSpace(string(tx.Name)); name != "" {
		return name
	}
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	return strings.TrimSpace(string(tx.Memo))
}

var _ Reader = (*OFXReader)(nil)
