package clock

import "time"

const DateLayout = "2006-01-02"

// LocationClock supplies the business calendar. The counter's day is a
// calendar day in the deployment's configured location, not UTC.
type LocationClock struct {
	loc *time.Location
}

func New(timezone string) (LocationClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return LocationClock{}, err
	}
	return LocationClock{loc: loc}, nil
}

func (c LocationClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c LocationClock) Today() string {
	return c.Now().Format(DateLayout)
}

// DayBounds returns the half-open UTC instant range covering the local
// calendar day, for created_at range scans.
func (c LocationClock) DayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day, day.AddDate(0, 0, 1), nil
}
