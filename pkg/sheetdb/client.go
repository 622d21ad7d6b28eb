package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

var (
	errSpreadsheetIDRequired = errors.New("spreadsheet id is required")
	errNoHeaderRow           = errors.New("sheet has no header row")
	errRowNotFound           = errors.New("no row matches the filter")
)

// Client implements Store against a single Google spreadsheet. Each logical
// table is one sheet whose first row holds the column names.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	logg          *logger.Logger
}

// NewClient initializes the Sheets service and verifies the spreadsheet is
// reachable. The client is constructed once at process start and reused for
// the process lifetime.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logg *logger.Logger) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errSpreadsheetIDRequired
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	client := &Client{svc: svc, spreadsheetID: spreadsheetID, logg: logg}
	if _, err := svc.Spreadsheets.Get(spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("verifying spreadsheet %s: %w", spreadsheetID, err)
	}

	if logg != nil {
		logg.Info(ctx, "sheets client initialized")
	}
	return client, nil
}

// ReadAll returns every data row of the named sheet.
func (c *Client) ReadAll(ctx context.Context, table string) ([]Row, error) {
	headers, values, err := c.fetch(ctx, table)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(values))
	for _, cells := range values {
		rows = append(rows, decodeRow(headers, cells))
	}
	return rows, nil
}

// Append adds the given rows at the bottom of the sheet.
func (c *Client) Append(ctx context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	headers, err := c.headers(ctx, table)
	if err != nil {
		return err
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, encodeRow(headers, row))
	}

	_, err = c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, quoteRange(table), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to %s: %w", table, err)
	}
	return nil
}

// Update rewrites the named fields of the first row matching where.
func (c *Client) Update(ctx context.Context, table string, where Row, fields Row) error {
	headers, values, err := c.fetch(ctx, table)
	if err != nil {
		return err
	}

	idx := findRow(headers, values, where)
	if idx < 0 {
		return fmt.Errorf("updating %s: %w", table, errRowNotFound)
	}

	row := decodeRow(headers, values[idx])
	for k, v := range fields {
		row[k] = v
	}

	// Row 1 is the header, data starts on row 2.
	rangeRef := fmt.Sprintf("%s!A%d", quoteRange(table), idx+2)
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rangeRef, &sheets.ValueRange{Values: [][]any{encodeRow(headers, row)}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	return nil
}

// Delete removes the first row matching where, shifting later rows up.
func (c *Client) Delete(ctx context.Context, table string, where Row) error {
	headers, values, err := c.fetch(ctx, table)
	if err != nil {
		return err
	}

	idx := findRow(headers, values, where)
	if idx < 0 {
		return nil
	}

	sheetID, err := c.sheetID(ctx, table)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(idx + 1), // zero-based, +1 skips the header
					EndIndex:   int64(idx + 2),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, table string) ([]string, [][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteRange(table)).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("reading %s: %w", table, errNoHeaderRow)
	}

	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, cellString(cell))
	}
	return headers, resp.Values[1:], nil
}

func (c *Client) headers(ctx context.Context, table string) ([]string, error) {
	rangeRef := fmt.Sprintf("%s!1:1", quoteRange(table))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("reading %s header: %w", table, errNoHeaderRow)
	}
	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, cellString(cell))
	}
	return headers, nil
}

func (c *Client) sheetID(ctx context.Context, table string) (int64, error) {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.sheetId", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("resolving sheet %s: %w", table, err)
	}
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == table {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("resolving sheet %s: sheet not found", table)
}

func findRow(headers []string, values [][]any, where Row) int {
	for i, cells := range values {
		if rowMatches(decodeRow(headers, cells), where) {
			return i
		}
	}
	return -1
}

func decodeRow(headers []string, cells []any) Row {
	row := make(Row, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(cells) {
			row[header] = cellString(cells[i])
		} else {
			row[header] = ""
		}
	}
	return row
}

func encodeRow(headers []string, row Row) []any {
	cells := make([]any, len(headers))
	for i, header := range headers {
		cells[i] = row[header]
	}
	return cells
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

func quoteRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}
