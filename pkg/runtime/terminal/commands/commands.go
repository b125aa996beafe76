// Package commands implements the growth-atlas CLI commands.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
)

// ServiceFactory builds the analytics service from the CLI's persistent
// flags; each command invokes it once at run time.
type ServiceFactory func(ctx context.Context) (*analytics.Service, error)

// Handler renders a report to the terminal.
type Handler interface {
	Handle(report *domain.Report) error
}

const dateLayout = "2006-01-02"

// rangeFlags carries the date window every reporting command accepts.
// When --from is omitted the window is the last --days days ending today.
type rangeFlags struct {
	from string
	to   string
	days int
}

func (f *rangeFlags) dateRange() (domain.DateRange, error) {
	if f.from == "" {
		end := time.Now().Truncate(24 * time.Hour)
		return domain.DateRange{Start: end.AddDate(0, 0, -(f.days - 1)), End: end}, nil
	}

	start, err := time.Parse(dateLayout, f.from)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("malformed --from %q: want YYYY-MM-DD", f.from)
	}
	to := f.to
	if to == "" {
		to = time.Now().Format(dateLayout)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("malformed --to %q: want YYYY-MM-DD", f.to)
	}
	if end.Before(start) {
		return domain.DateRange{}, fmt.Errorf("--to precedes --from")
	}
	return domain.DateRange{Start: start, End: end}, nil
}
