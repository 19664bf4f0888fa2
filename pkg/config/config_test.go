package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DASHBOARD_WARRANTY_WINDOW_DAYS", "45")
	t.Setenv("DASHBOARD_UPCOMING_LIMIT", "oops")

	cfg := New()

	assert.Equal(t, 45*24*time.Hour, cfg.Dashboard.WarrantyWindow)
	assert.Equal(t, 30*24*time.Hour, cfg.Dashboard.ServiceWindow)
	assert.Equal(t, uint64(10), cfg.Dashboard.UpcomingLimit, "некорректное значение должно заменяться значением по умолчанию")
	assert.Equal(t, 300*time.Second, cfg.Reports.CacheTTL)
}

func TestApplyYAML_OverridesOnlyNonZero(t *testing.T) {
	cfg := &Config{
		Dashboard: DashboardConfig{
			WarrantyWindow: 30 * 24 * time.Hour,
			ServiceWindow:  30 * 24 * time.Hour,
			UpcomingLimit:  10,
		},
	}

	err := cfg.applyYAML([]byte(`
dashboard:
  service_window: 168h
  upcoming_limit: 5
reports:
  cache_ttl: 1m
`))
	require.NoError(t, err)

	assert.Equal(t, 30*24*time.Hour, cfg.Dashboard.WarrantyWindow)
	assert.Equal(t, 7*24*time.Hour, cfg.Dashboard.ServiceWindow)
	assert.Equal(t, uint64(5), cfg.Dashboard.UpcomingLimit)
	assert.Equal(t, time.Minute, cfg.Reports.CacheTTL)
}

func TestApplyYAML_Invalid(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.applyYAML([]byte("dashboard: [")))
}
