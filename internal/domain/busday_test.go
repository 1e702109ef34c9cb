package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLastBusinessDay(t *testing.T) {
	cases := []struct {
		name  string
		today time.Time
		want  time.Time
	}{
		{"monday maps to friday", time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC), time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)},
		{"sunday maps to friday", time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)},
		{"saturday maps to friday", time.Date(2025, 10, 18, 23, 59, 0, 0, time.UTC), time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)},
		{"tuesday maps to monday", time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)},
		{"wednesday maps to tuesday", time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)},
		{"friday maps to thursday", time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, LastBusinessDay(tc.today))
		})
	}
}
