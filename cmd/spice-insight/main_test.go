package main

import (
	"strings"
	"testing"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/Veraticus/spice-insight/internal/textclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHistory(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []model.MonthlyTotal
		wantErr bool
	}{
		{
			name: "ordered pairs",
			args: []string{"Jan=100", "Feb=150.5", " Mar = 200 "},
			want: []model.MonthlyTotal{{Period: "Jan", Total: 100}, {Period: "Feb", Total: 150.5}, {Period: "Mar", Total: 200}},
		},
		{name: "empty", args: nil, want: []model.MonthlyTotal{}},
		{name: "missing equals", args: []string{"Jan100"}, wantErr: true},
		{name: "missing period", args: []string{"=100"}, wantErr: true},
		{name: "not a number", args: []string{"Jan=lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHistory(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, common.KindInput, common.Kind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadExpenses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []textclass.Expense
	}{
		{
			name:  "header in any order",
			input: "description,title\nride share,Uber\n,Groceries\n",
			want:  []textclass.Expense{{Title: "Uber", Description: "ride share"}, {Title: "Groceries"}},
		},
		{
			name:  "no header",
			input: "Electricity bill,monthly\nSneakers\n",
			want:  []textclass.Expense{{Title: "Electricity bill", Description: "monthly"}, {Title: "Sneakers"}},
		},
		{
			name:  "blank rows skipped, description-only rows kept",
			input: "title,description\n,orphan\n,\nFlight,to NYC\n",
			want:  []textclass.Expense{{Description: "orphan"}, {Title: "Flight", Description: "to NYC"}},
		},
		{
			name:  "empty file",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readExpenses(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.Equal(t, "image/png", mediaType("receipt.bin", png))
	assert.Equal(t, "image/tiff", mediaType("scan", []byte("II*\x00garbage")))
	assert.Equal(t, "image/png", mediaType("scan.PNG", []byte("garbage")))
	assert.Equal(t, "text/plain; charset=utf-8", mediaType("notes", []byte("hello")))
}
