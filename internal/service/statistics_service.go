package service

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"hotelbooking/internal/access"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/export"
	"hotelbooking/internal/models"

	"github.com/rs/zerolog"
)

var periodLayouts = map[string]string{
	models.GroupByDay:   "2006-01-02",
	models.GroupByMonth: "2006-01",
	models.GroupByYear:  "2006",
}

type StatisticsService struct {
	repo   domain.BookingRepository
	logger *zerolog.Logger
}

func NewStatisticsService(repo domain.BookingRepository, logger *zerolog.Logger) *StatisticsService {
	return &StatisticsService{repo: repo, logger: orNop(logger)}
}

// BookingStatistics groups bookings by check-in period over [startDate, end of endDate].
func (s *StatisticsService) BookingStatistics(ctx context.Context, actor models.Actor, startDate, endDate, groupBy string) ([]models.StatisticsRow, error) {
	if err := access.Check(access.ViewStatistics, actor, 0); err != nil {
		return nil, err
	}

	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return nil, domain.Validation("startDate and endDate are required")
	}
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, domain.Validation("startDate must not be after endDate")
	}

	if groupBy == "" {
		groupBy = models.GroupByDay
	}
	layout, ok := periodLayouts[groupBy]
	if !ok {
		return nil, domain.Validation("groupBy must be one of day, month, year")
	}

	bookings, err := s.repo.GetBookingsByCheckInRange(ctx, start, endOfDay(end))
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*models.StatisticsRow)
	for _, b := range bookings {
		key := b.CheckIn.UTC().Format(layout)
		row, ok := buckets[key]
		if !ok {
			row = &models.StatisticsRow{Period: key}
			buckets[key] = row
		}
		row.TotalBookings++
		if b.Status == models.StatusConfirmed {
			row.ConfirmedBookings++
		}
		row.TotalRevenue += b.TotalPrice
	}

	rows := make([]models.StatisticsRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })

	return rows, nil
}

// ExportStatistics renders BookingStatistics as an XLSX workbook.
func (s *StatisticsService) ExportStatistics(ctx context.Context, actor models.Actor, startDate, endDate, groupBy string) (*bytes.Buffer, error) {
	rows, err := s.BookingStatistics(ctx, actor, startDate, endDate, groupBy)
	if err != nil {
		return nil, err
	}
	if groupBy == "" {
		groupBy = models.GroupByDay
	}

	buf, err := export.StatisticsWorkbook(rows, startDate, endDate, groupBy)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("actor_id", actor.ID).Int("rows", len(rows)).Msg("statistics exported")
	return buf, nil
}
