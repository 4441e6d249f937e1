package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"ideascout/internal/models"
	"ideascout/shared/config"
	"ideascout/shared/storage"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sink appends analyzed videos as rows to a Google Sheet and reads back the
// IDs already recorded there. The sheet is the only durable store: column A
// holds the video ID and owns row identity.
type Sink struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSink(ctx context.Context, cfg *config.SheetsConfig) (*Sink, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key %s: %w", cfg.CredentialsFile, err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &Sink{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// LoadExistingIDs reads column A (below the header row) of the destination
// sheet. A sheet that does not exist yet or holds no rows yields an empty
// lookup rather than an error; anything else propagates.
func (s *Sink) LoadExistingIDs(ctx context.Context) (storage.IDLookup, error) {
	readRange := fmt.Sprintf("%s!A2:A", s.sheetName)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			log.Printf("Destination range %s not found, treating as empty", readRange)
			return storage.EmptyLookup(), nil
		}
		return storage.IDLookup{}, fmt.Errorf("failed to read existing IDs from %s: %w", readRange, err)
	}

	var ids []string
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok {
			ids = append(ids, id)
		}
	}

	return storage.NewLookup(ids), nil
}

// Append writes one row per analysis in a single batched call. Values are
// written RAW so nothing is interpreted as a formula. An empty batch is a
// logged no-op with no network call.
func (s *Sink) Append(ctx context.Context, analyses []*models.Analysis) error {
	if len(analyses) == 0 {
		log.Println("Nothing to append")
		return nil
	}

	valueRange := &sheets.ValueRange{Values: rowsFromAnalyses(analyses)}

	appendRange := fmt.Sprintf("%s!A:F", s.sheetName)
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, appendRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append %d rows to %s: %w", len(analyses), appendRange, err)
	}

	log.Printf("Appended %d rows to %s", len(analyses), appendRange)
	return nil
}

// rowsFromAnalyses lays each analysis out in the sheet's column order:
// id, title, description, channel, publish time, analysis text.
func rowsFromAnalyses(analyses []*models.Analysis) [][]interface{} {
	rows := make([][]interface{}, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, []interface{}{
			a.Video.ID,
			a.Video.Title,
			a.Video.Description,
			a.Video.ChannelTitle,
			a.Video.PublishedAt,
			a.Ideas,
		})
	}
	return rows
}

// isMissingRange reports whether err is the API telling us the sheet or
// range does not exist yet (400 "Unable to parse range" or a plain 404).
func isMissingRange(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 400 || apiErr.Code == 404
}
