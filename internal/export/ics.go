package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/pkg/dateutil"
)

const (
	icsProductID = "-//leave-planner//Long Weekend Planner//EN"
	icsUIDDomain = "leave-planner"
)

// icsWriter keeps the first write error so event output stays linear
type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(format string, args ...any) {
	if iw.err != nil {
		return
	}
	_, iw.err = fmt.Fprintf(iw.w, format+"\r\n", args...)
}

// WriteICS writes the plan as an iCalendar file: one all-day event per
// selected block and one per natural long weekend. now stamps DTSTAMP.
func WriteICS(w io.Writer, result *planner.Result, now time.Time) error {
	iw := &icsWriter{w: w}
	stamp := now.UTC().Format("20060102T150405Z")

	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:%s", icsProductID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("X-WR-CALNAME:%s", escapeText(fmt.Sprintf("Long weekends %d", result.Year)))

	for _, block := range result.Plan.SelectedBlocks {
		leaves := strings.Join(block.PaidLeaveDates.Sorted(), ", ")
		writeEvent(iw, eventData{
			uid:         fmt.Sprintf("block-%s-%s@%s", block.StartDate, block.EndDate, icsUIDDomain),
			stamp:       stamp,
			start:       block.StartDate,
			end:         block.EndDate,
			summary:     "Vacation: " + block.Description,
			description: "Paid leave on " + leaves,
			category:    "VACATION",
		})
	}

	for _, lw := range result.LongWeekends {
		writeEvent(iw, eventData{
			uid:         fmt.Sprintf("weekend-%s@%s", lw.StartDate, icsUIDDomain),
			stamp:       stamp,
			start:       lw.StartDate,
			end:         lw.EndDate,
			summary:     "Long weekend: " + lw.Description,
			description: "No leave needed",
			category:    "HOLIDAY",
		})
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

type eventData struct {
	uid         string
	stamp       string
	start       string
	end         string
	summary     string
	description string
	category    string
}

func writeEvent(iw *icsWriter, e eventData) {
	start, err := dateutil.ParseKey(e.start)
	if err != nil {
		return
	}
	end, err := dateutil.ParseKey(e.end)
	if err != nil {
		return
	}

	// all-day events end on the following day (exclusive)
	iw.line("BEGIN:VEVENT")
	iw.line("UID:%s", e.uid)
	iw.line("DTSTAMP:%s", e.stamp)
	iw.line("DTSTART;VALUE=DATE:%s", start.Format("20060102"))
	iw.line("DTEND;VALUE=DATE:%s", dateutil.AddDays(end, 1).Format("20060102"))
	iw.line("SUMMARY:%s", escapeText(e.summary))
	iw.line("DESCRIPTION:%s", escapeText(e.description))
	iw.line("CATEGORIES:%s", e.category)
	iw.line("TRANSP:TRANSPARENT")
	iw.line("END:VEVENT")
}

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// escapeText escapes an iCalendar TEXT value
func escapeText(s string) string {
	return icsEscaper.Replace(s)
}
