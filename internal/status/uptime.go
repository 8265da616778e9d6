package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// UptimeSource reports how long the host has been up.
type UptimeSource interface {
	Uptime(ctx context.Context) (time.Duration, error)
}

// HostUptime reads the host boot time through gopsutil.
type HostUptime struct{}

func (HostUptime) Uptime(ctx context.Context) (time.Duration, error) {
	secs, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// FormatUptime renders d the way `uptime -p` does, e.g. "up 2 days, 3 hours, 1 minute".
func FormatUptime(d time.Duration) string {
	minutes := int64(d / time.Minute)
	weeks := minutes / (7 * 24 * 60)
	minutes -= weeks * 7 * 24 * 60
	days := minutes / (24 * 60)
	minutes -= days * 24 * 60
	hours := minutes / 60
	minutes -= hours * 60

	var parts []string
	add := func(n int64, unit string) {
		if n == 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", unit))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
	add(weeks, "week")
	add(days, "day")
	add(hours, "hour")
	add(minutes, "minute")
	if len(parts) == 0 {
		return "up 0 minutes"
	}
	return "up " + strings.Join(parts, ", ")
}
