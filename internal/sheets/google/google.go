// Package google exports ledger rows to a Google spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"successpath/internal/finance"
	"successpath/internal/nutrition"
	"successpath/internal/sheets"
)

var _ sheets.Exporter = (*Client)(nil)

type Config struct {
	SpreadsheetID      string
	TransactionsSheet  string
	MealsSheet         string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	mealsSheet        string
}

// New builds a client authenticated with service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, cfg,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// NewWithOptions builds a client with explicit API options, e.g. a custom
// endpoint.
func NewWithOptions(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	c := &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: orDefault(cfg.TransactionsSheet, "Transactions"),
		mealsSheet:        orDefault(cfg.MealsSheet, "Meals"),
	}
	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"transactions_sheet", c.transactionsSheet, "meals_sheet", c.mealsSheet)
	return c, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (c *Client) AppendTransaction(ctx context.Context, t finance.Transaction) (string, error) {
	return c.appendRow(ctx, c.transactionsSheet, t.ID, sheets.TransactionHeader, sheets.TransactionRow(t))
}

func (c *Client) AppendMeal(ctx context.Context, e nutrition.MealEntry) (string, error) {
	return c.appendRow(ctx, c.mealsSheet, e.ID, sheets.MealHeader, sheets.MealRow(e))
}

// appendRow writes row below the last used row of sheet. Column A holds the
// record ID, so a redelivered record finds its earlier row instead of being
// written twice. An empty sheet gets the header first.
func (c *Client) appendRow(ctx context.Context, sheet, id string, header []string, row []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read ids from %s: %w", sheet, err)
	}
	ids := firstColumn(resp.Values)
	if i := indexOf(ids, id); i >= 0 {
		slog.DebugContext(ctx, "Row already exported", "sheet", sheet, "id", id)
		return rowRef(sheet, i+1, len(row)), nil
	}

	values := [][]any{row}
	next := len(ids) + 1
	if len(ids) == 0 {
		values = [][]any{headerRow(header), row}
	}
	last := next + len(values) - 1

	rng := fmt.Sprintf("%s!A%d:%s%d", sheet, next, column(len(row)), last)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write row to %s: %w", sheet, err)
	}
	return rowRef(sheet, last, len(row)), nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
