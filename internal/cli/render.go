package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/watchlist/triage/internal/columns"
	"github.com/watchlist/triage/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	hiddenStyle = cellStyle.Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// itemsTable renders rows with an id column followed by the visible columns.
func itemsTable(rows []domain.ItemRow, cols []columns.Key) string {
	headers := make([]string, 0, len(cols)+1)
	headers = append(headers, "ID")
	for _, k := range cols {
		headers = append(headers, columns.Label(k))
	}

	data := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, 0, len(cols)+1)
		cells = append(cells, row.ItemID)
		for _, k := range cols {
			cells = append(cells, cell(row, k))
		}
		data[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case r >= 0 && r < len(rows) && rows[r].Hidden:
				return hiddenStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

func cell(row domain.ItemRow, k columns.Key) string {
	switch k {
	case columns.Image:
		if row.ImageURL == "" {
			return ""
		}
		return "■"
	case columns.Title:
		return row.Title
	case columns.Price:
		return formatPrice(row.Price, row.Currency)
	case columns.Bids:
		return strconv.Itoa(row.Bids)
	case columns.Seller:
		return row.Seller
	case columns.Category:
		return row.Category
	case columns.Posted:
		return row.PostedAt
	case columns.Ends:
		if row.EndsIn != "" {
			return row.EndsIn
		}
		return row.EndsAt
	case columns.Actions:
		return flags(row)
	default:
		return ""
	}
}

func formatPrice(price float64, currency string) string {
	s := strconv.FormatFloat(price, 'f', 2, 64)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func flags(row domain.ItemRow) string {
	var parts []string
	if row.Favorite {
		parts = append(parts, "★")
	}
	if row.Hidden {
		parts = append(parts, "hidden")
	}
	if !row.Note.Empty() {
		parts = append(parts, "note")
	}
	return strings.Join(parts, " ")
}

// keyValueTable renders two-column tables for presets, views and searches.
func keyValueTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func pageFooter(rs *domain.ResultSet) string {
	return fmt.Sprintf("page %d of %d · %d items · sort %s", rs.Page, max(rs.TotalPages, 1), rs.Total, rs.Sort)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}
