package receipt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{name: "total line wins with comma decimals", text: "Total 12,50\nTax 1,00", want: 12.50, wantOK: true},
		{name: "last match without a total line", text: "Milk 1.99\nBread 2.49\nCash 20.00", want: 20.00, wantOK: true},
		{name: "last of several total lines", text: "Subtotal 9.00\nTotal 10.00\nGrand Total 11.50\nChange 8.50", want: 11.50, wantOK: true},
		{name: "subtotal is not a total", text: "Subtotal 9.00\nTax 0.90", want: 0.90, wantOK: true},
		{name: "no numbers", text: "no numbers here", wantOK: false},
		{name: "integers only", text: "Table 12\nGuests 4", wantOK: false},
		{name: "three decimals use the first two", text: "Weight 1.234", want: 1.23, wantOK: true},
		{name: "empty", text: "", wantOK: false},
		{name: "garbled", text: "@@##\x00ÿþ 7,5 ¤", wantOK: false},
		{name: "crlf endings", text: "Coffee 3.20\r\nTOTAL 3.20\r\n", want: 3.20, wantOK: true},
		{name: "total line beats later amounts", text: "Total 12.50\nCash 20.00\nChange 7.50", want: 12.50, wantOK: true},
		{name: "arabic-indic digits", text: "Total ١٢.٥٠", want: 12.50, wantOK: true},
		{name: "devanagari digits without total", text: "Chai १५.००", want: 15.00, wantOK: true},
		{name: "form feed separates pages", text: "Coffee 3.20\fTotal 9.99\fPage 2 4.00", want: 9.99, wantOK: true},
		{name: "unicode line separator", text: "Total 5.00\u2028Tip 1.00", want: 5.00, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAmount(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestExtractLineItems(t *testing.T) {
	t.Run("qualifying lines", func(t *testing.T) {
		text := "  ACME MARKET  \n\n1234\n---\nMilk 2L 1.99\n#\nThank you"
		assert.Equal(t, []string{"ACME MARKET", "Milk 2L 1.99", "Thank you"}, ExtractLineItems(text))
	})

	t.Run("capped at five in document order", func(t *testing.T) {
		lines := []string{"Item 1", "Item 2", "Item 3", "Item 4", "Item 5", "Item 6", "Item 7"}
		assert.Equal(t, lines[:5], ExtractLineItems(strings.Join(lines, "\n")))
	})

	t.Run("empty and garbage", func(t *testing.T) {
		assert.Empty(t, ExtractLineItems(""))
		assert.Empty(t, ExtractLineItems("\n\n   \n***\n42"))
	})
}

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "newline and crlf", text: "a\nb\r\nc\rd", want: []string{"a", "b", "c", "d"}},
		{name: "form feed and vertical tab", text: "page one\fpage two\vtail", want: []string{"page one", "page two", "tail"}},
		{name: "unicode separators", text: "a\u0085b\u2028c\u2029d", want: []string{"a", "b", "c", "d"}},
		{name: "trailing separator", text: "only\f", want: []string{"only"}},
		{name: "blank lines kept", text: "a\n\nb", want: []string{"a", "", "b"}},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for line := range lines(tt.text) {
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCandidatesIsLazy(t *testing.T) {
	var inspected []string
	next := Candidates("a 1\nb 2\nc 3")
	for item := range next {
		inspected = append(inspected, item)
		if len(inspected) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a 1", "b 2"}, inspected)
}

func TestExtract(t *testing.T) {
	ext := Extract("Corner Cafe\nLatte 4,50\nTotal 4,50")
	require.NotNil(t, ext.Amount)
	assert.InDelta(t, 4.50, *ext.Amount, 1e-9)
	assert.Equal(t, []string{"Corner Cafe", "Latte 4,50", "Total 4,50"}, ext.Items)
	assert.Equal(t, "Corner Cafe\nLatte 4,50\nTotal 4,50", ext.RawText)

	ext = Extract("nothing useful")
	assert.Nil(t, ext.Amount)
	assert.Equal(t, []string{"nothing useful"}, ext.Items)
}
