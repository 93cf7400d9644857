// Package report renders an organizer's event report as an XLSX workbook.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/types"
)

// Sheet names, in workbook order.
const (
	SheetLeaderboard = "Leaderboard"
	SheetSubmissions = "Submissions"
	SheetAnalytics   = "Analytics"
)

// ContentType is the media type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Input is everything a report shows.
type Input struct {
	Event       model.Event
	Leaderboard []types.Entry
	Submissions []model.Submission
	Analytics   types.Analytics
	GeneratedAt time.Time
}

// Write renders the workbook to w.
func Write(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetLeaderboard); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSubmissions, SheetAnalytics} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	board := [][]any{{"Rank", "Kind", "Name", "Score", "Source", "Judge Scores", "Submissions"}}
	for _, e := range in.Leaderboard {
		board = append(board, []any{e.Rank, string(e.Kind), e.Name, e.Score, string(e.Source), e.JudgeScores, e.SubmissionCount})
	}

	subs := [][]any{{"ID", "Title", "Team", "Submitted By", "Track", "Tags", "Repository", "Video", "Heuristic", "Created"}}
	for _, s := range in.Submissions {
		subs = append(subs, []any{
			s.ID, s.Title, s.TeamID, s.SubmittedBy, s.Track, strings.Join(s.Tags, ", "),
			s.RepoURL, s.VideoURL, s.HeuristicScore, s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	a := in.Analytics
	stats := [][]any{
		{"Metric", "Value"},
		{"Event", in.Event.Title},
		{"Participants", a.Participants},
		{"Teams", a.Teams},
		{"Submissions", a.Submissions},
		{"Scored Submissions", a.ScoredSubmissions},
		{"Judge Scores", a.JudgeScores},
		{"Milestones", a.Milestones},
		{"Completed Milestones", a.CompletedMilestones},
		{"Completion %", a.CompletionPercent},
	}
	if !in.GeneratedAt.IsZero() {
		stats = append(stats, []any{"Generated", in.GeneratedAt.UTC().Format(time.RFC3339)})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{SheetLeaderboard, board},
		{SheetSubmissions, subs},
		{SheetAnalytics, stats},
	} {
		if err := writeRows(f, sheet.name, sheet.rows, header); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build renders the workbook into memory.
func Build(in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, header int) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", last, 18)
}
