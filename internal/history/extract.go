package history

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// AdjCloseColumn is the 1-indexed cell position of "Adj Close" in the
// history table rows.
const AdjCloseColumn = 6

// ErrNotMarkup is returned when the input contains no markup to parse.
var ErrNotMarkup = errors.New("document contains no markup")

// Extraction is the result of scanning a history page.
type Extraction struct {
	// Prices holds the adjusted close values in document order, top row first.
	Prices []string
	// Rows is the number of table rows scanned.
	Rows int
}

// Extract parses doc and collects the adjusted close column.
//
// A well-formed document without the column yields an empty Prices slice
// and a nil error; only input that cannot be treated as markup fails.
func Extract(doc string) (Extraction, error) {
	if err := requireMarkup(doc); err != nil {
		return Extraction{}, err
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to parse document: %w", err)
	}

	out := Extraction{Prices: []string{}}
	d.Find("tr").Each(func(_ int, row *goquery.Selection) {
		out.Rows++
		cell := adjCloseCell(row)
		if cell == nil {
			return
		}
		if text := normalize(cell.Text()); text != "" {
			out.Prices = append(out.Prices, text)
		}
	})

	return out, nil
}

// adjCloseCell picks the adjusted close cell of row, or nil when the row has
// no data cell at that position. Header cells (th) never match.
func adjCloseCell(row *goquery.Selection) *goquery.Selection {
	cells := row.ChildrenFiltered("td, th")
	if cells.Length() < AdjCloseColumn {
		return nil
	}
	cell := cells.Eq(AdjCloseColumn - 1)
	if !cell.Is("td") {
		return nil
	}
	return cell
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// requireMarkup rejects input that holds no tags at all: empty bodies and
// plain text would otherwise parse into an empty, implied html skeleton.
func requireMarkup(doc string) error {
	if strings.TrimSpace(doc) == "" {
		return ErrNotMarkup
	}
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("failed to tokenize document: %w", err)
			}
			return ErrNotMarkup
		case html.StartTagToken, html.SelfClosingTagToken, html.DoctypeToken:
			return nil
		}
	}
}
