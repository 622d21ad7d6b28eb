package purchases

import (
	"strconv"
	"strings"
	"time"

	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

// Column names match the production spreadsheet headers.
const (
	colUUID        = "uuid"
	colName        = "jmeno"
	colEmail       = "email"
	colAddress     = "adresa"
	colCreatedAt   = "vytvoreno"
	colPaidAt      = "zaplaceno"
	colPrice       = "cena"
	colTicketCount = "pocet_vstupenek"
	colSymbol      = "variabilni_symbol"
	colTxID        = "id_transakce"
	colTicketCodes = "vstupenky_hash"
	colResource    = "zdroj"
	colNote        = "poznamka"
)

type Buyer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Purchase is one buyer's reservation of tickets and/or one exclusive
// add-on resource. A zero PaidAt means the purchase is still awaiting its
// bank transfer; TransactionID being set is what blocks rematching.
type Purchase struct {
	UUID  string
	Buyer Buyer

	CreatedAt time.Time
	PaidAt    time.Time

	Price       int
	TicketCount int
	Symbol      int
	Resource    string
	Note        string

	TransactionID int64
	TicketCodes   []string
}

func (p Purchase) Paid() bool {
	return !p.PaidAt.IsZero()
}

func (p Purchase) Matched() bool {
	return p.TransactionID != 0
}

func (p Purchase) HasCode(code string) bool {
	for _, c := range p.TicketCodes {
		if c == code {
			return true
		}
	}
	return false
}

func purchaseFromRow(row sheetdb.Row) Purchase {
	return Purchase{
		UUID: row[colUUID],
		Buyer: Buyer{
			Name:    row[colName],
			Email:   row[colEmail],
			Address: row[colAddress],
		},
		CreatedAt:     millisToTime(row[colCreatedAt]),
		PaidAt:        millisToTime(row[colPaidAt]),
		Price:         parseInt(row[colPrice]),
		TicketCount:   parseInt(row[colTicketCount]),
		Symbol:        parseInt(row[colSymbol]),
		Resource:      row[colResource],
		Note:          row[colNote],
		TransactionID: parseInt64(row[colTxID]),
		TicketCodes:   splitCodes(row[colTicketCodes]),
	}
}

func purchaseToRow(p Purchase) sheetdb.Row {
	return sheetdb.Row{
		colUUID:        p.UUID,
		colName:        p.Buyer.Name,
		colEmail:       p.Buyer.Email,
		colAddress:     p.Buyer.Address,
		colCreatedAt:   timeToMillis(p.CreatedAt),
		colPaidAt:      timeToMillis(p.PaidAt),
		colPrice:       strconv.Itoa(p.Price),
		colTicketCount: strconv.Itoa(p.TicketCount),
		colSymbol:      strconv.Itoa(p.Symbol),
		colResource:    p.Resource,
		colNote:        p.Note,
		colTxID:        formatInt64(p.TransactionID),
		colTicketCodes: strings.Join(p.TicketCodes, ", "),
	}
}

func splitCodes(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
}

func millisToTime(cell string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func timeToMillis(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseInt(cell string) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return 0
	}
	return n
}

func parseInt64(cell string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formatInt64(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
