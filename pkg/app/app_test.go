package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/render/chart"
	"github.com/de-tools/statreport/pkg/services/config"
	"github.com/de-tools/statreport/pkg/services/stats"
	"github.com/de-tools/statreport/pkg/store/sqlutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Store: sqlutil.Settings{Driver: sqlutil.DriverSQLite, Path: ":memory:"},
		Report: config.ReportConfig{
			Locale:       "en",
			MaxLineChars: 20,
			Chart:        chart.DefaultConfig(),
		},
		Log: config.LogConfig{Level: "info"},
	}
}

func TestNew(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	a, err := New(ctx, testConfig())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Stats)
	require.NotNil(t, a.Documents)
	require.NotNil(t, a.Importer)

	doc, err := a.Documents.Summary(ctx, domain.StatFilter{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Contains(t, doc.Name, "summary-")

	_, err = a.Documents.Detail(ctx, "missing")
	assert.ErrorIs(t, err, stats.ErrNotFound)
}

func TestNew_BadLabelsFile(t *testing.T) {
	cfg := testConfig()
	cfg.Report.LabelsFile = "does-not-exist.ini"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
