// Package report aggregates submitted responses and serializes them for download.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mbolis/quick-form/model"
)

var (
	ErrNoResponses   = errors.New("no responses to export")
	ErrUnknownFormat = errors.New("unknown export format")
)

// TimestampLayout is the calendar format used for CSV timestamps, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var csvHeader = []string{"Timestamp", "Respondent", "Email", "Duration"}

type Stats struct {
	Count                  int     `json:"count"`
	CountToday             int     `json:"countToday"`
	AverageDurationSeconds float64 `json:"averageDurationSeconds"`
}

// SummaryStats counts responses, those submitted on now's calendar day (in
// now's location) and their mean duration. The mean of nothing is 0.
func SummaryStats(responses []model.Response, now time.Time) Stats {
	stats := Stats{Count: len(responses)}
	if len(responses) == 0 {
		return stats
	}

	y, m, d := now.Date()
	total := 0
	for _, r := range responses {
		ry, rm, rd := r.Timestamp.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			stats.CountToday++
		}
		total += r.Duration
	}
	stats.AverageDurationSeconds = float64(total) / float64(len(responses))
	return stats
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DailyCounts groups responses by calendar day in loc, oldest first, keeping
// the last days entries that have data (all of them when days <= 0).
func DailyCounts(responses []model.Response, loc *time.Location, days int) []DayCount {
	counts := map[string]int{}
	for _, r := range responses {
		counts[r.Timestamp.In(loc).Format(time.DateOnly)]++
	}

	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}
	slices.SortFunc(out, func(a, b DayCount) int { return strings.Compare(a.Day, b.Day) })

	if days > 0 && len(out) > days {
		out = out[len(out)-days:]
	}
	return out
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// ExportCSV writes one quoted row per response under the header row.
// encoding/csv only quotes when needed, so rows are built by hand.
func ExportCSV(responses []model.Response) ([]byte, error) {
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	lines := make([]string, 0, len(responses)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, r := range responses {
		row := []string{
			quote(r.Timestamp.UTC().Format(TimestampLayout)),
			quote(r.Respondent),
			quote(r.Email),
			quote(strconv.Itoa(r.Duration)),
		}
		lines = append(lines, strings.Join(row, ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// ExportJSON writes the responses indented, with timestamps in UTC.
// Decoding the output gives back the same responses.
func ExportJSON(responses []model.Response) ([]byte, error) {
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}
	out := slices.Clone(responses)
	for i := range out {
		out[i].Timestamp = out[i].Timestamp.UTC()
	}
	return json.MarshalIndent(out, "", "  ")
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

func Export(f Format, responses []model.Response) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportCSV(responses)
	case FormatJSON:
		return ExportJSON(responses)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ExportFilename names a download after the export time.
func ExportFilename(f Format, now time.Time) string {
	return fmt.Sprintf("responses_%d.%s", now.UnixMilli(), f)
}
