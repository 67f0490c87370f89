package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/kagurabytes/chatstats/chatstats/database/models"
)

// ChartService renders activity charts to PNG by templating an HTML page
// and screenshotting it in headless Chrome.
type ChartService struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewChartService() *ChartService {
	return &ChartService{
		logger: slog.With(slog.String("service", "chart")),
		now:    time.Now,
	}
}

type activityBar struct {
	Username string
	Count    int64
	Percent  int
}

type activityChartData struct {
	Title     string
	Timestamp string
	Bars      []activityBar
}

type timelinePoint struct {
	Date    string
	Count   int64
	Percent int
}

type timelineChartData struct {
	Title     string
	Timestamp string
	Points    []timelinePoint
}

// ActivityChart renders a horizontal bar chart of message counts per user.
func (s *ChartService) ActivityChart(ctx context.Context, title string, ranks []models.UserRank) ([]byte, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("no activity data to chart")
	}

	var max int64 = 1
	for _, r := range ranks {
		if r.MessageCount > max {
			max = r.MessageCount
		}
	}

	data := activityChartData{
		Title:     title,
		Timestamp: s.now().Format("2006-01-02 15:04"),
	}
	for _, r := range ranks {
		data.Bars = append(data.Bars, activityBar{
			Username: r.Username,
			Count:    r.MessageCount,
			Percent:  int(r.MessageCount * 100 / max),
		})
	}

	html, err := renderTemplate(activityChartTemplate, data)
	if err != nil {
		return nil, err
	}
	return s.screenshot(ctx, html)
}

// TimelineChart renders message counts per calendar date over the window.
// Dates without activity show as zero, matching the window exactly.
func (s *ChartService) TimelineChart(ctx context.Context, entries []models.TimelineEntry, windowDays int) ([]byte, error) {
	data := timelineChartData{
		Title:     fmt.Sprintf("Activity over the last %d days", windowDays),
		Timestamp: s.now().Format("2006-01-02 15:04"),
		Points:    buildTimelinePoints(entries, windowDays, s.now()),
	}

	html, err := renderTemplate(timelineChartTemplate, data)
	if err != nil {
		return nil, err
	}
	return s.screenshot(ctx, html)
}

// buildTimelinePoints buckets entries by calendar date over the window ending
// at end. Both sides of the lookup are keyed in UTC: the store returns UTC
// dates, and a host running in another zone must not shift counts across
// buckets.
func buildTimelinePoints(entries []models.TimelineEntry, windowDays int, end time.Time) []timelinePoint {
	end = end.UTC()

	counts := make(map[string]int64, len(entries))
	for _, e := range entries {
		counts[e.Date.UTC().Format("2006-01-02")] = e.MessageCount
	}

	var max int64 = 1
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	var points []timelinePoint
	for d := end.AddDate(0, 0, -windowDays); !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		count := counts[key]
		points = append(points, timelinePoint{
			Date:    key,
			Count:   count,
			Percent: int(count * 100 / max),
		})
	}
	return points
}

func (s *ChartService) screenshot(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()
	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+html),
		chromedp.WaitVisible("#chart-container", chromedp.ByID),
		chromedp.Sleep(300*time.Millisecond),
		chromedp.Screenshot("#chart-container", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to render chart",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	s.logger.Info("Chart rendered",
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))
	return imageBytes, nil
}

func renderTemplate(tmplText string, data any) (string, error) {
	tmpl, err := template.New("chart").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse chart template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute chart template: %w", err)
	}

	// data: URL payload; the fragment marker must be escaped.
	html := strings.ReplaceAll(buf.String(), "#", "%23")
	html = strings.ReplaceAll(html, "\n", "")
	return html, nil
}

const activityChartTemplate = `<!DOCTYPE html>
<html>
<head>
<style>
body { margin: 0; background: #1e1f22; font-family: "Segoe UI", sans-serif; }
#chart-container { width: 800px; padding: 24px; background: #2b2d31; color: #f2f3f5; }
h1 { font-size: 20px; margin: 0 0 4px 0; }
.timestamp { font-size: 12px; color: #949ba4; margin-bottom: 16px; }
.row { display: flex; align-items: center; margin-bottom: 8px; }
.name { width: 160px; font-size: 14px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.track { flex: 1; background: #1e1f22; border-radius: 4px; height: 22px; }
.bar { background: #5865f2; border-radius: 4px; height: 22px; }
.count { width: 70px; text-align: right; font-size: 14px; }
</style>
</head>
<body>
<div id="chart-container">
  <h1>{{.Title}}</h1>
  <div class="timestamp">{{.Timestamp}}</div>
  {{range .Bars}}
  <div class="row">
    <div class="name">@{{.Username}}</div>
    <div class="track"><div class="bar" style="width: {{.Percent}}%"></div></div>
    <div class="count">{{.Count}}</div>
  </div>
  {{end}}
</div>
</body>
</html>`

const timelineChartTemplate = `<!DOCTYPE html>
<html>
<head>
<style>
body { margin: 0; background: #1e1f22; font-family: "Segoe UI", sans-serif; }
#chart-container { width: 800px; padding: 24px; background: #2b2d31; color: #f2f3f5; }
h1 { font-size: 20px; margin: 0 0 4px 0; }
.timestamp { font-size: 12px; color: #949ba4; margin-bottom: 16px; }
.plot { display: flex; align-items: flex-end; height: 220px; gap: 6px; }
.col { flex: 1; display: flex; flex-direction: column; justify-content: flex-end; height: 100%; }
.fill { background: #23a55a; border-radius: 3px 3px 0 0; min-height: 2px; }
.labels { display: flex; gap: 6px; margin-top: 6px; }
.label { flex: 1; font-size: 10px; color: #949ba4; text-align: center; transform: rotate(-45deg); }
.value { font-size: 11px; text-align: center; margin-bottom: 2px; }
</style>
</head>
<body>
<div id="chart-container">
  <h1>{{.Title}}</h1>
  <div class="timestamp">{{.Timestamp}}</div>
  <div class="plot">
    {{range .Points}}
    <div class="col"><div class="value">{{.Count}}</div><div class="fill" style="height: {{.Percent}}%"></div></div>
    {{end}}
  </div>
  <div class="labels">
    {{range .Points}}<div class="label">{{.Date}}</div>{{end}}
  </div>
</div>
</body>
</html>`
