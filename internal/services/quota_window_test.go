package services

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	cases := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"mid month",
			time.Date(2026, 3, 15, 13, 45, 0, 0, time.UTC),
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"first instant of month",
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"last instant of month",
			time.Date(2026, 2, 28, 23, 59, 59, 999999999, time.UTC),
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"december rolls into january",
			time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"non UTC input normalized",
			time.Date(2026, 6, 1, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := monthWindow(tc.now)
			if !start.Equal(tc.wantStart) {
				t.Fatalf("start = %v, want %v", start, tc.wantStart)
			}
			if !end.Equal(tc.wantEnd) {
				t.Fatalf("end = %v, want %v", end, tc.wantEnd)
			}
		})
	}
}

func TestQuotaStatusRemaining(t *testing.T) {
	unbounded := &QuotaStatus{ImageCount: 5, ByteTotal: 100}
	if unbounded.RemainingImages() != nil || unbounded.RemainingBytes() != nil {
		t.Fatalf("expected nil remaining on unbounded plan")
	}

	bounded := &QuotaStatus{
		ImageCount: 2,
		ByteTotal:  900,
		Limits: EntitlementLimits{
			MaxImagesPerWindow: i64(3),
			MaxBytesPerWindow:  i64(1000),
		},
	}
	if got := bounded.RemainingImages(); got == nil || *got != 1 {
		t.Fatalf("remaining images = %v, want 1", got)
	}
	if got := bounded.RemainingBytes(); got == nil || *got != 100 {
		t.Fatalf("remaining bytes = %v, want 100", got)
	}

	over := &QuotaStatus{
		ImageCount: 7,
		ByteTotal:  2000,
		Limits: EntitlementLimits{
			MaxImagesPerWindow: i64(3),
			MaxBytesPerWindow:  i64(1000),
		},
	}
	if got := over.RemainingImages(); got == nil || *got != 0 {
		t.Fatalf("remaining images = %v, want 0", got)
	}
	if got := over.RemainingBytes(); got == nil || *got != 0 {
		t.Fatalf("remaining bytes = %v, want 0", got)
	}
}
