package entity

import (
	"fmt"
	"time"

	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
)

type PeriodType interface {
	Period() string
	Start() time.Time
	End() time.Time
}

type PeriodWeek struct {
	current time.Time
}

func NewPeriodWeek(current time.Time) PeriodWeek {
	return PeriodWeek{current: current}
}

func (p PeriodWeek) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("%d:%d", week, year)
}

func (p PeriodWeek) Start() time.Time {
	t := dateutil.BeginningOfDay(p.current)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return t.AddDate(0, 0, 1-weekday)
}

func (p PeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type PeriodMonth struct {
	current time.Time
}

func NewPeriodMonth(current time.Time) PeriodMonth {
	return PeriodMonth{current: current}
}

func (p PeriodMonth) Period() string {
	return fmt.Sprintf("%s:%d", p.current.Month(), p.current.Year())
}

func (p PeriodMonth) Start() time.Time {
	return dateutil.BeginningOfMonth(p.current)
}

func (p PeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Days returns the period length in whole days.
func Days(p PeriodType) int {
	return dateutil.DaysBetween(p.Start(), p.End())
}
