package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/gofinances/internal/aggregate"
	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const currencyPattern = `"R$ "#,##0.00`

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	service    *sheets.Service
	aggregator *aggregate.Aggregator
	logger     *slog.Logger
	config     Config
}

// NewWriter creates a new Google Sheets report writer. The aggregator supplies
// the formatter and category names used in the sheet.
func NewWriter(ctx context.Context, config Config, agg *aggregate.Aggregator, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config:     config,
		service:    srv,
		aggregator: agg,
		logger:     logger,
	}, nil
}

// Write replaces the first sheet's contents with the report.
func (w *Writer) Write(ctx context.Context, report service.Report) error {
	w.logger.Info("starting report generation",
		"user_id", report.UserID,
		"period", report.Period.String(),
		"transactions", len(report.Transactions))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if err := common.WithRetry(ctx, func() error {
		return classifyAPIError(w.clearSheet(ctx, spreadsheetID))
	}, retryOpts); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	layout := w.prepareReportData(report)

	err = common.WithRetry(ctx, func() error {
		return classifyAPIError(w.writeData(ctx, spreadsheetID, layout.values))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, layout))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report generation completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(layout.values))

	return nil
}

// classifyAPIError maps Sheets API failures for common.WithRetry: quota errors
// become ErrRateLimit, server errors are retried, and other client errors are
// permanent.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
	case apiErr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	case apiErr.Code >= http.StatusBadRequest:
		return common.Permanent(err)
	}
	return err
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
			Locale:   "pt_BR",
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Resumo",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// reportLayout is the rendered grid plus the row positions formatting needs.
type reportLayout struct {
	values [][]any
	// sections holds the row indexes of section titles.
	sections []int
	// listingStart is the row index of the transaction listing header.
	listingStart int
}

func (l *reportLayout) section(title string) {
	l.sections = append(l.sections, len(l.values))
	l.values = append(l.values, []any{title})
}

func (l *reportLayout) row(cells ...any) {
	l.values = append(l.values, cells)
}

// prepareReportData lays out the summary, both breakdowns and the listing.
func (w *Writer) prepareReportData(report service.Report) reportLayout {
	f := w.aggregator.Formatter()
	layout := reportLayout{
		values: make([][]any, 0, 20+len(report.Expenses.Categories)+len(report.Income.Categories)+len(report.Transactions)),
	}

	layout.section("GoFinances")
	layout.values[0] = append(layout.values[0], f.MonthYear(report.Period), report.UserID)
	layout.row()

	layout.section("Resumo")
	layout.row("Entradas", report.Summary.Entries.Amount.InexactFloat64(), report.Summary.Entries.LastTransaction)
	layout.row("Saídas", report.Summary.Expensive.Amount.InexactFloat64(), report.Summary.Expensive.LastTransaction)
	layout.row("Total", report.Summary.Total.Amount.InexactFloat64(), report.Summary.Total.LastTransaction)
	layout.row()

	w.appendBreakdown(&layout, "Saídas por categoria", report.Expenses)
	layout.row()
	w.appendBreakdown(&layout, "Entradas por categoria", report.Income)
	layout.row()

	layout.section("Transações")
	layout.listingStart = len(layout.values)
	layout.row("Data", "Nome", "Valor", "Categoria", "Tipo")

	tax := w.aggregator.Taxonomy()
	for _, tx := range aggregate.Newest(report.Transactions) {
		category := tx.Category
		if cat, ok := tax.Lookup(tx.Category); ok {
			category = cat.Name
		}
		layout.row(
			tx.Date.Format("2006-01-02"),
			tx.Name,
			tx.Signed().InexactFloat64(),
			category,
			typeLabel(tx.Type),
		)
	}

	return layout
}

func (w *Writer) appendBreakdown(layout *reportLayout, title string, b aggregate.Breakdown) {
	layout.section(title)
	if len(b.Categories) == 0 {
		layout.row(w.aggregator.Formatter().NoTransactions())
		return
	}

	layout.row("Categoria", "Valor", "Percentual")
	for _, c := range b.Categories {
		layout.row(c.Name, c.Total.InexactFloat64(), c.PercentFormatted)
	}
	layout.row("Total", b.Total.InexactFloat64())
}

func typeLabel(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Entrada"
	}
	return "Saída"
}

// writeData writes the data to the spreadsheet.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	// Write in batches to avoid API limits
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// formattingRequests builds the batch update for a laid-out report.
func formattingRequests(layout reportLayout) []*sheets.Request {
	totalRows := int64(len(layout.values))
	listing := int64(layout.listingStart)

	requests := make([]*sheets.Request, 0, len(layout.sections)+5)
	for _, row := range layout.sections {
		requests = append(requests, boldRow(int64(row)))
	}

	requests = append(requests,
		// Amounts above the listing live in column B.
		currencyColumn(0, listing, 1),
		// Listing amounts live in column C.
		currencyColumn(listing, totalRows, 2),
		boldRow(listing),
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   5,
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)
	return requests
}

func boldRow(row int64) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    row,
				EndRowIndex:      row + 1,
				StartColumnIndex: 0,
				EndColumnIndex:   5,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{
						Bold: true,
					},
				},
			},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

func currencyColumn(startRow, endRow, column int64) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: column,
				EndColumnIndex:   column + 1,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					NumberFormat: &sheets.NumberFormat{
						Type:    "CURRENCY",
						Pattern: currencyPattern,
					},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}

// applyFormatting applies formatting to the spreadsheet.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, layout reportLayout) error {
	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formattingRequests(layout),
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
