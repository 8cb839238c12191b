package models

const (
	GroupByDay   = "day"
	GroupByMonth = "month"
	GroupByYear  = "year"
)

// StatisticsRow aggregates the bookings whose check-in falls in one period.
type StatisticsRow struct {
	Period            string  `json:"period"`
	TotalBookings     int     `json:"totalBookings"`
	ConfirmedBookings int     `json:"confirmedBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
}
