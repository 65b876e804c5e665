package googlesheets

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials point at a service account key. JSON wins over File.
type Credentials struct {
	JSON string
	File string
}

func (c Credentials) IsZero() bool {
	return c.JSON == "" && c.File == ""
}

func (c Credentials) load() ([]byte, error) {
	if c.JSON != "" {
		return []byte(c.JSON), nil
	}
	b, err := os.ReadFile(c.File)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	return b, nil
}

// ValuesReader returns the raw cell values of an A1 range.
type ValuesReader interface {
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

type SheetsReader struct {
	service *sheets.Service
	logger  *zap.Logger
}

// NewSheetsReader builds a read-only Sheets client from service account credentials.
func NewSheetsReader(ctx context.Context, creds Credentials, logger *zap.Logger) (*SheetsReader, error) {
	b, err := creds.load()
	if err != nil {
		return nil, err
	}

	credentials, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to load Google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client: %w", err)
	}

	return &SheetsReader{service: service, logger: logger}, nil
}

func (r *SheetsReader) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		r.logger.Info("No data found in range", zap.String("spreadsheet_id", spreadsheetID), zap.String("range", readRange))
		return nil, nil
	}

	return resp.Values, nil
}
