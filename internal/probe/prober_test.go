package probe

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafefcli/internal/archive"
	"cafefcli/internal/cdn"
	"cafefcli/internal/config"
	"cafefcli/internal/shared/testutil"
	"cafefcli/internal/tradedate"
)

const testBase = "http://cdn.test/ami_data"

var today = tradedate.New(2024, 3, 17) // a Sunday

func probeConfig(parallelism int) config.ProbeConfig {
	cfg := config.Default().Probe
	cfg.Parallelism = parallelism
	return cfg
}

type recordingSink struct {
	labels []string
}

func (s *recordingSink) Store(label string, members []archive.Member) error {
	s.labels = append(s.labels, label)
	return nil
}

func TestExpectedLastTradingDay(t *testing.T) {
	friday := tradedate.New(2024, 3, 15)
	thursday := tradedate.New(2024, 3, 14)

	tests := []struct {
		name    string
		publish func(t *testing.T, c *testutil.CDN)
		want    tradedate.Date
		wantErr error
	}{
		{
			name: "today published",
			publish: func(t *testing.T, c *testutil.CDN) {
				c.PublishDailyIndex(t, today, testutil.DayRows(today))
				c.PublishDailyIndex(t, friday, testutil.DayRows(friday))
			},
			want: today,
		},
		{
			name: "weekend walks back to friday",
			publish: func(t *testing.T, c *testutil.CDN) {
				c.PublishDailyIndex(t, friday, testutil.DayRows(friday))
				c.PublishDailyIndex(t, thursday, testutil.DayRows(thursday))
			},
			want: friday,
		},
		{
			name: "archive without a row for its own date is not a trading day",
			publish: func(t *testing.T, c *testutil.CDN) {
				c.PublishDailyIndex(t, friday, testutil.DayRows(thursday))
				c.PublishDailyIndex(t, thursday, testutil.DayRows(thursday))
			},
			want: thursday,
		},
		{
			name: "download failure stops the walk",
			publish: func(t *testing.T, c *testutil.CDN) {
				c.Source.FailFetch(c.URLs.Daily(cdn.Indices, friday), errors.New("connection reset"))
				c.PublishDailyIndex(t, thursday, testutil.DayRows(thursday))
			},
			wantErr: ErrUnverifiableDay,
		},
		{
			name: "corrupt archive stops the walk",
			publish: func(t *testing.T, c *testutil.CDN) {
				c.Source.Put(c.URLs.Daily(cdn.Indices, friday), []byte("not a zip"))
				c.PublishDailyIndex(t, thursday, testutil.DayRows(thursday))
			},
			wantErr: ErrUnverifiableDay,
		},
		{
			name: "archive without index table stops the walk",
			publish: func(t *testing.T, c *testutil.CDN) {
				c.Source.Put(c.URLs.Daily(cdn.Indices, friday), testutil.ZipArchive(t, map[string]string{"readme.txt": "x"}))
				c.PublishDailyIndex(t, thursday, testutil.DayRows(thursday))
			},
			wantErr: ErrUnverifiableDay,
		},
		{
			name: "last day of the window is still examined",
			publish: func(t *testing.T, c *testutil.CDN) {
				d := today.AddDays(-14)
				c.PublishDailyIndex(t, d, testutil.DayRows(d))
			},
			want: today.AddDays(-14),
		},
		{
			name: "nothing in the window",
			publish: func(t *testing.T, c *testutil.CDN) {
				d := today.AddDays(-15)
				c.PublishDailyIndex(t, d, testutil.DayRows(d))
			},
			wantErr: ErrNoTradingDayFound,
		},
	}

	for _, tt := range tests {
		for _, parallelism := range []int{1, 4, 16} {
			t.Run(tt.name, func(t *testing.T) {
				c := testutil.NewCDN(testBase)
				tt.publish(t, c)

				p := NewProber(c.Source, c.URLs, tradedate.FixedClock{Date: today}, probeConfig(parallelism))
				got, err := p.ExpectedLastTradingDay(context.Background())

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got, "parallelism %d", parallelism)
			})
		}
	}
}

func TestExpectedLastTradingDay_SerialProbeOrder(t *testing.T) {
	friday := tradedate.New(2024, 3, 15)
	c := testutil.NewCDN(testBase)
	c.PublishDailyIndex(t, friday, testutil.DayRows(friday))

	p := NewProber(c.Source, c.URLs, tradedate.FixedClock{Date: today}, probeConfig(1))
	_, err := p.ExpectedLastTradingDay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		c.URLs.Daily(cdn.Indices, today),
		c.URLs.Daily(cdn.Indices, today.AddDays(-1)),
		c.URLs.Daily(cdn.Indices, friday),
	}, c.Source.HeadCalls())
	assert.Equal(t, []string{c.URLs.Daily(cdn.Indices, friday)}, c.Source.FetchCalls())
}

func TestExpectedLastTradingDay_KeepsArchiveAndLogs(t *testing.T) {
	c := testutil.NewCDN(testBase)
	c.PublishDailyIndex(t, today, testutil.DayRows(today))

	logger, handler := testutil.NewTestLogger(t)
	sink := &recordingSink{}
	p := NewProber(c.Source, c.URLs, tradedate.FixedClock{Date: today}, probeConfig(2),
		WithLogger(logger), WithSink(sink))

	_, err := p.ExpectedLastTradingDay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{config.ProbeExtractDir}, sink.labels)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Expected last trading day determined")
	assert.True(t, handler.ContainsAttr("component", "trading_day_prober"))
}

func TestExpectedLastTradingDay_CancelledContext(t *testing.T) {
	c := testutil.NewCDN(testBase)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProber(c.Source, c.URLs, tradedate.FixedClock{Date: today}, probeConfig(2))
	_, err := p.ExpectedLastTradingDay(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Source.Calls())
}

func TestExpectedLastTradingDay_UnreadableNewestDayIsNotSkipped(t *testing.T) {
	friday := tradedate.New(2024, 3, 15)
	thursday := tradedate.New(2024, 3, 14)

	c := testutil.NewCDN(testBase)
	c.Source.FailFetch(c.URLs.Daily(cdn.Indices, friday), errors.New("connection reset"))
	c.PublishDailyIndex(t, thursday, testutil.DayRows(thursday))

	p := NewProber(c.Source, c.URLs, tradedate.FixedClock{Date: today}, probeConfig(1))
	_, err := p.ExpectedLastTradingDay(context.Background())

	require.ErrorIs(t, err, ErrUnverifiableDay)
	assert.NotErrorIs(t, err, ErrNoTradingDayFound)
	assert.Contains(t, err.Error(), "2024-03-15")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, []string{c.URLs.Daily(cdn.Indices, friday)}, c.Source.FetchCalls())
}
