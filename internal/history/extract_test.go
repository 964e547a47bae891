package history

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func page(rows ...string) string {
	return `<!DOCTYPE html><html><head><title>History</title></head><body>
<table><thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close*</th><th>Adj Close**</th><th>Volume</th></tr></thead>
<tbody>` + strings.Join(rows, "\n") + `</tbody></table></body></html>`
}

func TestExtract_AdjClose(t *testing.T) {
	doc := page(
		row("Oct 17, 2026", "149.00", "151.00", "148.50", "150.10", "150.00", "51,000,000"),
		row("Oct 16, 2026", "150.00", "152.00", "149.75", "151.30", "151.25", "48,000,000"),
	)

	got, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"150.00", "151.25"}, got.Prices)
	require.Equal(t, 3, got.Rows)
}

func TestExtract_RowOrderAndDuplicates(t *testing.T) {
	doc := page(
		row("d1", "-", "-", "-", "-", "10.00"),
		row("d2", "-", "-", "-", "-", "10.00"),
		row("d3", "-", "-", "-", "-", "9.50"),
	)

	got, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"10.00", "10.00", "9.50"}, got.Prices)
}

func TestExtract_OnlyPopulatedRows(t *testing.T) {
	// N rows, M of which carry a sixth cell.
	doc := page(
		row("d1", "-", "-", "-", "-", "1.00"),
		`<tr><td>d2</td><td colspan="6">0.24 Dividend</td></tr>`,
		row("d3", "-", "-", "-", "-", "3.00"),
		row("d4", "-", "-"),
		row("d5", "-", "-", "-", "-", "  "),
		row("d6", "-", "-", "-", "-", "6.00", "600"),
	)

	got, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"1.00", "3.00", "6.00"}, got.Prices)
	require.Equal(t, 7, got.Rows)
}

func TestExtract_ManyRows(t *testing.T) {
	var rows []string
	var want []string
	for i := 0; i < 100; i++ {
		v := fmt.Sprintf("%d.%02d", 100+i, i)
		rows = append(rows, row("d", "-", "-", "-", "-", v))
		want = append(want, v)
	}

	got, err := Extract(page(rows...))
	require.NoError(t, err)
	require.Equal(t, want, got.Prices)
}

func TestExtract_NormalizesText(t *testing.T) {
	doc := page(row("d", "-", "-", "-", "-", "\n   <span>1,234.50</span>\n\t "))

	got, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"1,234.50"}, got.Prices)
}

func TestExtract_NoMatchingColumn(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no table", "<html><body><p>Symbol not found</p></body></html>"},
		{"header only", page()},
		{"short rows", page(row("a", "b", "c"), row("d", "e"))},
		{"fragment", "<div>hello</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.doc)
			require.NoError(t, err)
			require.NotNil(t, got.Prices)
			require.Empty(t, got.Prices)
		})
	}
}

func TestExtract_NotMarkup(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"whitespace", " \n\t "},
		{"plain text", "Too Many Requests"},
		{"json", `{"prices":["1.00"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.doc)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrNotMarkup), "error = %v, want ErrNotMarkup", err)
		})
	}
}

func TestAdjCloseCell_HeaderIgnored(t *testing.T) {
	doc := `<table><tr><th>a</th><th>b</th><th>c</th><th>d</th><th>e</th><th>Adj Close**</th></tr></table>`

	got, err := Extract(doc)
	require.NoError(t, err)
	require.Empty(t, got.Prices)
	require.Equal(t, 1, got.Rows)
}
