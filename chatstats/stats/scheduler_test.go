package stats

import (
	"testing"
	"time"

	"github.com/kagurabytes/chatstats/chatstats/database/repositories/mock"
	"go.uber.org/mock/gomock"
)

func Test_nextMidnight(t *testing.T) {
	utcPlus3 := time.FixedZone("UTC+3", 3*3600)
	utcMinus5 := time.FixedZone("UTC-5", -5*3600)

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "mid-day UTC",
			now:  time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly midnight schedules the next day",
			now:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "positive offset crosses the local date line",
			now:  time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC), // 01:30 on the 11th in UTC+3
			loc:  utcPlus3,
			want: time.Date(2024, 3, 11, 21, 0, 0, 0, time.UTC),
		},
		{
			name: "negative offset stays behind UTC",
			now:  time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC), // 21:00 on the 10th in UTC-5
			loc:  utcMinus5,
			want: time.Date(2024, 3, 11, 5, 0, 0, 0, time.UTC),
		},
		{
			name: "month rollover",
			now:  time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextMidnight(tt.now, tt.loc); !got.Equal(tt.want) {
				t.Errorf("nextMidnight(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func Test_ResetScheduler_firesOncePerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	allTime := mock.NewMockCounterRepository(ctrl)
	daily := mock.NewMockCounterRepository(ctrl)
	daily.EXPECT().ResetAll(gomock.Any()).Return(true).Times(1)

	current := time.Date(2024, 5, 1, 23, 58, 0, 0, time.UTC)
	s := &ResetScheduler{
		ledger:   NewLedger(allTime, daily),
		loc:      time.UTC,
		interval: time.Minute,
		now:      func() time.Time { return current },
	}
	s.nextFire = nextMidnight(current, s.loc)

	// Before midnight nothing happens.
	s.tick()

	// Crossing midnight fires exactly once.
	current = time.Date(2024, 5, 2, 0, 0, 30, 0, time.UTC)
	s.tick()

	want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if !s.NextFire().Equal(want) {
		t.Errorf("NextFire() = %v, want %v", s.NextFire(), want)
	}

	// Later polls on the same day stay quiet.
	current = time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	s.tick()
}

func Test_ResetScheduler_lateWakeupStillFiresOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	allTime := mock.NewMockCounterRepository(ctrl)
	daily := mock.NewMockCounterRepository(ctrl)
	daily.EXPECT().ResetAll(gomock.Any()).Return(true).Times(1)

	// The process slept through several poll intervals.
	current := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	s := &ResetScheduler{
		ledger:   NewLedger(allTime, daily),
		loc:      time.UTC,
		interval: time.Minute,
		now:      func() time.Time { return current },
	}
	s.nextFire = nextMidnight(current, s.loc)

	current = time.Date(2024, 5, 2, 3, 45, 0, 0, time.UTC)
	s.tick()

	want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if !s.NextFire().Equal(want) {
		t.Errorf("NextFire() = %v, want %v", s.NextFire(), want)
	}
}

func Test_ResetScheduler_failedResetWaitsForNextDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	allTime := mock.NewMockCounterRepository(ctrl)
	daily := mock.NewMockCounterRepository(ctrl)
	daily.EXPECT().ResetAll(gomock.Any()).Return(false).Times(1)

	current := time.Date(2024, 5, 2, 0, 1, 0, 0, time.UTC)
	s := &ResetScheduler{
		ledger:   NewLedger(allTime, daily),
		loc:      time.UTC,
		interval: time.Minute,
		now:      func() time.Time { return current },
	}
	s.nextFire = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	s.tick()

	// A failed firing is not retried on the next poll.
	current = time.Date(2024, 5, 2, 0, 2, 0, 0, time.UTC)
	s.tick()

	want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if !s.NextFire().Equal(want) {
		t.Errorf("NextFire() = %v, want %v", s.NextFire(), want)
	}
}
