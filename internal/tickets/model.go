package tickets

import (
	"strconv"
	"time"

	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

// Usage table column headers.
const (
	colCode   = "hash"
	colUsedAt = "pouzito"
)

// State of one ticket code at the gate.
type State string

const (
	StateInvalid State = "invalid"
	StateValid   State = "valid"
	StateUsed    State = "used"
)

// UsageEntry records one redeemed code. A code with no entry is unused.
type UsageEntry struct {
	Code   string
	UsedAt time.Time
}

func usageFromRow(row sheetdb.Row) UsageEntry {
	entry := UsageEntry{Code: row[colCode]}
	if millis, err := strconv.ParseInt(row[colUsedAt], 10, 64); err == nil && millis > 0 {
		entry.UsedAt = time.UnixMilli(millis)
	}
	return entry
}

func usageToRow(entry UsageEntry) sheetdb.Row {
	return sheetdb.Row{
		colCode:   entry.Code,
		colUsedAt: strconv.FormatInt(entry.UsedAt.UnixMilli(), 10),
	}
}
