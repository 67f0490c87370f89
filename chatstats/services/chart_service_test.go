package services

import (
	"strings"
	"testing"
	"time"

	"github.com/kagurabytes/chatstats/chatstats/database/models"
)

func Test_buildTimelinePoints_bucketsInUTC(t *testing.T) {
	// The host runs ahead of UTC; the store's date must still land in its
	// own bucket.
	local := time.FixedZone("UTC+11", 11*3600)
	now := time.Date(2024, 5, 1, 2, 0, 0, 0, local) // 2024-04-30 15:00 UTC

	entries := []models.TimelineEntry{
		{Username: "alice", MessageCount: 5, Date: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
	}

	points := buildTimelinePoints(entries, 3, now)
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}
	if points[0].Date != "2024-04-27" || points[0].Count != 0 {
		t.Errorf("points[0] = %+v, want empty 2024-04-27 bucket", points[0])
	}
	last := points[len(points)-1]
	if last.Date != "2024-04-30" {
		t.Errorf("last bucket = %q, want 2024-04-30", last.Date)
	}
	if last.Count != 5 || last.Percent != 100 {
		t.Errorf("last bucket = %+v, want count 5 at 100%%", last)
	}
}

func Test_buildTimelinePoints_zeroFillsQuietDays(t *testing.T) {
	end := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	entries := []models.TimelineEntry{
		{Username: "alice", MessageCount: 4, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Username: "bob", MessageCount: 2, Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
	}

	points := buildTimelinePoints(entries, 2, end)
	want := []struct {
		date  string
		count int64
	}{
		{"2024-05-01", 4},
		{"2024-05-02", 0},
		{"2024-05-03", 2},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, w := range want {
		if points[i].Date != w.date || points[i].Count != w.count {
			t.Errorf("points[%d] = %+v, want %s=%d", i, points[i], w.date, w.count)
		}
	}
}

func Test_renderTemplate_dataURLSafe(t *testing.T) {
	data := activityChartData{
		Title:     "Most active users",
		Timestamp: "2024-05-01 12:00",
		Bars: []activityBar{
			{Username: "alice", Count: 100, Percent: 100},
			{Username: "bob", Count: 50, Percent: 50},
		},
	}

	html, err := renderTemplate(activityChartTemplate, data)
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}

	// The payload is embedded in a data: URL; fragments and newlines would
	// truncate it.
	if strings.Contains(html, "#") {
		t.Error("rendered html contains an unescaped #")
	}
	if strings.Contains(html, "\n") {
		t.Error("rendered html contains a newline")
	}
	for _, want := range []string{"Most active users", "@alice", "width: 50%", "%23chart-container"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered html missing %q", want)
		}
	}
}

func Test_renderTemplate_escapesUsernames(t *testing.T) {
	data := activityChartData{
		Title: "t",
		Bars:  []activityBar{{Username: "<script>alert(1)</script>", Count: 1, Percent: 100}},
	}

	html, err := renderTemplate(activityChartTemplate, data)
	if err != nil {
		t.Fatalf("renderTemplate() error = %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("username was not escaped")
	}
}
