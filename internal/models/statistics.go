package models

// StatisticsQuery is the body of GET /restaurants/statistics. Radius is in
// meters. Pointers tell a missing field apart from zero.
type StatisticsQuery struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius"`
}

// Statistics summarises the ratings of the restaurants inside a query area.
type Statistics struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Std   float64 `json:"std"`
}
