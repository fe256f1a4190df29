package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240201120000[0:GMT]
<TRNAMT>2000.00
<FITID>2024020101
<NAME>PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240325120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024032501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_ParseFile(t *testing.T) {
	p := NewParser()

	txns, err := p.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, txns, 4)

	assert.Equal(t, "2024011501", txns[0].ID)
	assert.Equal(t, "STARBUCKS STORE #1234", txns[0].Name)
	assert.Equal(t, "1234567890", txns[0].AccountID)
	assert.InDelta(t, -25.50, txns[0].Amount, 0.001)
	assert.True(t, txns[0].IsSpend())
	assert.False(t, txns[2].IsSpend())

	_, err = p.ParseFile(context.Background(), strings.NewReader("not ofx"))
	assert.Error(t, err)
}

func TestParser_PreprocessOFX(t *testing.T) {
	p := NewParser()
	got := p.preprocessOFX("\n\n<SEVERITY>Info</SEVERITY>\n<OFX\n")
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<OFX>\n", got)
}

func TestMonthlyTotals(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

	txns := []Transaction{
		{Date: day(2024, 1, 15), Amount: -25.50},
		{Date: day(2024, 1, 20), Amount: -125.00},
		{Date: day(2024, 2, 1), Amount: 2000},
		{Date: day(2024, 3, 25), Amount: -500},
	}

	assert.Equal(t, []model.MonthlyTotal{
		{Period: "2024-01", Total: 150.50},
		{Period: "2024-02", Total: 0},
		{Period: "2024-03", Total: 500},
	}, MonthlyTotals(txns))

	assert.Nil(t, MonthlyTotals(nil))
	assert.Nil(t, MonthlyTotals([]Transaction{{Date: day(2024, 1, 1), Amount: 10}}))
}
