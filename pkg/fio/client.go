package fio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

var (
	errTokenRequired    = errors.New("fio token is required")
	errFeedFromRequired = errors.New("feed start date is required")
)

const feedDateLayout = "2006-01-02"

// Transaction is one settled bank transaction as reported by the feed.
// VariableSymbol is kept raw; whether it parses to a usable payment
// reference is the matcher's concern.
type Transaction struct {
	ID             int64
	Timestamp      time.Time
	Amount         decimal.Decimal
	Currency       string
	VariableSymbol string
	CounterAccount CounterAccount
}

type CounterAccount struct {
	Account  string
	BankCode string
	Name     string
}

// Client fetches the full historical transaction list from the Fio Bank
// REST API. The feed always covers the whole sales period, so repeated
// reconciliation runs see a monotonically growing list.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	from       string
	logg       *logger.Logger
}

// NewClient validates the feed configuration and builds the client.
func NewClient(cfg config.BankConfig, logg *logger.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errTokenRequired
	}
	from := strings.TrimSpace(cfg.FeedFrom)
	if from == "" {
		return nil, errFeedFromRequired
	}
	if _, err := time.Parse(feedDateLayout, from); err != nil {
		return nil, fmt.Errorf("parsing feed start date %q: %w", from, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      token,
		from:       from,
		logg:       logg,
	}, nil
}

// Transactions returns every transaction from the sales period start until
// today.
func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	to := time.Now().Format(feedDateLayout)
	url := fmt.Sprintf("%s/periods/%s/%s/%s/transactions.json", c.baseURL, c.token, c.from, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching bank feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bank feed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading bank feed: %w", err)
	}

	transactions, err := parseStatement(payload)
	if err != nil {
		return nil, err
	}

	if c.logg != nil {
		c.logg.Debug(c.logg.WithField(ctx, "transactions", len(transactions)), "bank feed fetched")
	}
	return transactions, nil
}

// Statement wire format: every cell is a {value, name} pair under a
// positional "columnN" key.
type statementEnvelope struct {
	AccountStatement struct {
		TransactionList struct {
			Transaction []statementRow `json:"transaction"`
		} `json:"transactionList"`
	} `json:"accountStatement"`
}

type statementRow struct {
	ID             *numberColumn  `json:"column22"`
	Date           *stringColumn  `json:"column0"`
	Amount         *decimalColumn `json:"column1"`
	CounterAccount *stringColumn  `json:"column2"`
	BankCode       *stringColumn  `json:"column3"`
	VariableSymbol *stringColumn  `json:"column5"`
	CounterName    *stringColumn  `json:"column10"`
	Currency       *stringColumn  `json:"column14"`
}

type stringColumn struct {
	Value string `json:"value"`
}

type numberColumn struct {
	Value int64 `json:"value"`
}

type decimalColumn struct {
	Value decimal.Decimal `json:"value"`
}

const statementDateLayout = "2006-01-02-0700"

func parseStatement(payload []byte) ([]Transaction, error) {
	var envelope statementEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decoding bank statement: %w", err)
	}

	rows := envelope.AccountStatement.TransactionList.Transaction
	transactions := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		if row.ID == nil {
			continue
		}
		tx := Transaction{ID: row.ID.Value}
		if row.Amount != nil {
			tx.Amount = row.Amount.Value
		}
		if row.Currency != nil {
			tx.Currency = row.Currency.Value
		}
		if row.VariableSymbol != nil {
			tx.VariableSymbol = row.VariableSymbol.Value
		}
		if row.CounterAccount != nil {
			tx.CounterAccount.Account = row.CounterAccount.Value
		}
		if row.BankCode != nil {
			tx.CounterAccount.BankCode = row.BankCode.Value
		}
		if row.CounterName != nil {
			tx.CounterAccount.Name = row.CounterName.Value
		}
		if row.Date != nil {
			if ts, err := time.Parse(statementDateLayout, row.Date.Value); err == nil {
				tx.Timestamp = ts
			}
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}
