package services

import (
	"log"
	"sort"
	"time"

	"cake_store/internal/config"
	"cake_store/pkg/dateutil"
)

// ScheduleService decides which pickup dates the storefront accepts. A date is
// selectable iff it is on the allow-list and not excluded by the lead-time
// blackout or a fixed holiday.
type ScheduleService interface {
	IsDateAllowed(date time.Time) bool
	AllowedDates() []time.Time
	ExcludedDates() []time.Time
	AllowedRange() (min, max time.Time, ok bool)
}

type scheduleService struct {
	leadDays    int
	closedDays  []config.MonthDay
	pickupDates []time.Time
	now         func() time.Time
}

func NewScheduleService(cfg *config.Config) ScheduleService {
	var pickup []time.Time
	for _, raw := range cfg.PickupDates {
		d, err := dateutil.Parse(raw)
		if err != nil {
			log.Printf("ignoring invalid pickup date %q: %v", raw, err)
			continue
		}
		pickup = append(pickup, d)
	}

	return &scheduleService{
		leadDays:    cfg.LeadTimeDays,
		closedDays:  cfg.ClosedDays,
		pickupDates: pickup,
		now:         time.Now,
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// futureHolidays projects the fixed (day, month) holidays onto the current
// year and keeps only those still ahead of today.
func (s *scheduleService) futureHolidays(today time.Time) []time.Time {
	var dates []time.Time
	for _, md := range s.closedDays {
		d := time.Date(today.Year(), time.Month(md.Month), md.Day, 0, 0, 0, 0, today.Location())
		if d.After(today) {
			dates = append(dates, d)
		}
	}
	return dates
}

// blackoutDates walks forward from today one day at a time, collecting days
// that are not fixed holidays, until the lead-time window is filled. Holidays
// along the way extend the walk, so the blackout always spans leadDays
// business days.
func (s *scheduleService) blackoutDates(today time.Time) []time.Time {
	holidays := make(map[string]bool)
	for _, d := range s.futureHolidays(today) {
		holidays[dateutil.Format(d)] = true
	}

	var dates []time.Time
	date := today
	for len(dates) < s.leadDays {
		if !holidays[dateutil.Format(date)] {
			dates = append(dates, date)
		}
		date = date.AddDate(0, 0, 1)
	}
	return dates
}

func (s *scheduleService) ExcludedDates() []time.Time {
	today := midnight(s.now())
	excluded := s.blackoutDates(today)
	excluded = append(excluded, s.futureHolidays(today)...)
	return excluded
}

// AllowedDates is the configured allow-list, or the Christmas pickup window
// (Dec 24–25 of the current year) when none is configured.
func (s *scheduleService) AllowedDates() []time.Time {
	if len(s.pickupDates) > 0 {
		dates := make([]time.Time, len(s.pickupDates))
		copy(dates, s.pickupDates)
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates
	}

	year := s.now().Year()
	loc := s.now().Location()
	return []time.Time{
		time.Date(year, time.December, 24, 0, 0, 0, 0, loc),
		time.Date(year, time.December, 25, 0, 0, 0, 0, loc),
	}
}

func (s *scheduleService) AllowedRange() (time.Time, time.Time, bool) {
	allowed := s.AllowedDates()
	if len(allowed) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return allowed[0], allowed[len(allowed)-1], true
}

func (s *scheduleService) IsDateAllowed(date time.Time) bool {
	inAllowList := false
	for _, d := range s.AllowedDates() {
		if dateutil.SameDay(d, date) {
			inAllowList = true
			break
		}
	}
	if !inAllowList {
		return false
	}

	for _, d := range s.ExcludedDates() {
		if dateutil.SameDay(d, date) {
			return false
		}
	}
	return true
}
