// Package google mirrors bookings into a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	bookingsSheet = "Bookings"
	dateLayout    = "2006-01-02"
	stampLayout   = "2006-01-02 15:04:05"
)

var headers = []interface{}{
	"ID", "Customer ID", "Room ID", "Check-in", "Check-out",
	"Total Price", "Status", "Payment Status", "Created At", "Updated At",
}

// ErrRowNotFound is returned when a booking has no row in the sheet.
var ErrRowNotFound = errors.New("booking row not found")

var rowInRange = regexp.MustCompile(`![A-Z]+(\d+)`)

type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[int64]int
	cacheMu       sync.RWMutex
	logger        *zerolog.Logger
}

// NewSheetsService authenticates with a service-account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string, logger *zerolog.Logger) (*SheetsService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return newSheetsService(srv, spreadsheetID, logger), nil
}

func newSheetsService(srv *sheets.Service, spreadsheetID string, logger *zerolog.Logger) *SheetsService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[int64]int),
		logger:        logger,
	}
}

// StartCacheRefresh warms the row cache now and then every interval until ctx is done.
func (s *SheetsService) StartCacheRefresh(ctx context.Context, interval time.Duration) {
	refresh := func() {
		rctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.WarmUpCache(rctx); err != nil && ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("sheets cache warm-up failed")
		}
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// TestConnection reads the header cell of the bookings sheet.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// WarmUpCache rebuilds the row index from the ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	cache := make(map[int64]int, len(resp.Values))
	for i, row := range resp.Values {
		if id := cellID(row); id > 0 {
			cache[id] = i + 1
		}
	}

	s.cacheMu.Lock()
	s.rowCache = cache
	s.cacheMu.Unlock()
	return nil
}

// AppendBooking appends a row and caches its index from the reply.
func (s *SheetsService) AppendBooking(ctx context.Context, booking *models.Booking) error {
	valueRange := &sheets.ValueRange{Values: [][]interface{}{bookingRowValues(booking)}}

	resp, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, bookingsSheet+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	if resp.Updates != nil {
		if row := rowFromRange(resp.Updates.UpdatedRange); row > 0 {
			s.setCachedRow(booking.ID, row)
		}
	}
	return nil
}

// UpsertBooking rewrites the booking's row, appending one when absent.
func (s *SheetsService) UpsertBooking(ctx context.Context, booking *models.Booking) error {
	if booking == nil {
		return errors.New("booking is nil")
	}

	rowIdx, err := s.FindBookingRow(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return s.AppendBooking(ctx, booking)
		}
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:J%d", bookingsSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// DeleteBookingRow clears the booking's row. A missing row is not an error.
func (s *SheetsService) DeleteBookingRow(ctx context.Context, bookingID int64) error {
	rowIdx, err := s.FindBookingRow(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil
		}
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:J%d", bookingsSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Clear(s.spreadsheetID, rangeData, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err == nil {
		s.deleteCachedRow(bookingID)
	}
	return err
}

// UpdateBookingStatus writes the status pair (G:H) and the updated stamp (J).
func (s *SheetsService) UpdateBookingStatus(ctx context.Context, bookingID int64, status, paymentStatus string) error {
	rowIdx, err := s.FindBookingRow(ctx, bookingID)
	if err != nil {
		return err
	}

	statusRange := fmt.Sprintf("%s!G%d:H%d", bookingsSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status, paymentStatus}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return err
	}

	updatedRange := fmt.Sprintf("%s!J%d:J%d", bookingsSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, updatedRange, &sheets.ValueRange{
		Values: [][]interface{}{{time.Now().UTC().Format(stampLayout)}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// FindBookingRow returns the 1-based row of bookingID, scanning column A on a cache miss.
func (s *SheetsService) FindBookingRow(ctx context.Context, bookingID int64) (int, error) {
	if bookingID == 0 {
		return 0, errors.New("booking id is required")
	}

	if row, ok := s.getCachedRow(bookingID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if cellID(row) == bookingID {
			rowIdx := i + 1
			s.setCachedRow(bookingID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

// ReplaceBookingsSheet rewrites the whole sheet: header in row 1, bookings from row 2.
func (s *SheetsService) ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error {
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, bookingsSheet+"!A:Z", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear bookings sheet: %w", err)
	}

	values := make([][]interface{}, 0, len(bookings)+1)
	values = append(values, headers)
	for _, b := range bookings {
		values = append(values, bookingRowValues(b))
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, bookingsSheet+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update bookings sheet: %w", err)
	}

	cache := make(map[int64]int, len(bookings))
	for i, b := range bookings {
		cache[b.ID] = i + 2
	}
	s.cacheMu.Lock()
	s.rowCache = cache
	s.cacheMu.Unlock()

	s.logger.Info().Int("bookings", len(bookings)).Msg("bookings sheet replaced")
	return nil
}

func (s *SheetsService) getCachedRow(id int64) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id int64, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

func (s *SheetsService) deleteCachedRow(id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.rowCache, id)
}

func bookingRowValues(b *models.Booking) []interface{} {
	return []interface{}{
		b.ID,
		b.CustomerID,
		b.RoomID,
		b.CheckIn.UTC().Format(dateLayout),
		b.CheckOut.UTC().Format(dateLayout),
		b.TotalPrice,
		b.Status,
		b.PaymentStatus,
		b.CreatedAt.UTC().Format(stampLayout),
		b.UpdatedAt.UTC().Format(stampLayout),
	}
}

// cellID reads a booking id from the first cell; the API returns numbers as float64 or string.
func cellID(row []interface{}) int64 {
	if len(row) == 0 {
		return 0
	}
	switch v := row[0].(type) {
	case float64:
		return int64(v)
	case string:
		id, _ := strconv.ParseInt(v, 10, 64)
		return id
	}
	return 0
}

// rowFromRange extracts the first row number from an A1 range such as "Bookings!A10:J10".
func rowFromRange(a1 string) int {
	m := rowInRange.FindStringSubmatch(a1)
	if len(m) != 2 {
		return 0
	}
	row, _ := strconv.Atoi(m[1])
	return row
}
