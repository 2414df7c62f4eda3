package report

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// chartStatistics is the fixed order of chart sections in a summary report.
var chartStatistics = []Statistic{StatHeadcount, StatPayFund, StatAvgSalary}

type chartSection struct {
	stat Statistic
	bar  []byte
	pie  []byte
}

func statisticValue(row domain.ReportRow, stat Statistic) float64 {
	v := row.Headcount
	switch stat {
	case StatPayFund:
		v = row.PayFund
	case StatAvgSalary:
		v = row.AvgSalary
	}
	if !v.Valid {
		return 0
	}
	return v.Decimal.InexactFloat64()
}

// RankTop returns the n rows with the largest value of stat, descending. Rows with equal values keep
// their input order; missing values count as zero. Labels longer than labelMax runes are shortened.
func RankTop(rows []domain.ReportRow, stat Statistic, n, labelMax int) []domain.ChartPoint {
	points := make([]domain.ChartPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.ChartPoint{
			Label: truncateLabel(row.Label, labelMax),
			Value: statisticValue(row, stat),
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	if len(points) > n {
		points = points[:n]
	}
	return points
}

func truncateLabel(label string, limit int) string {
	runes := []rune(label)
	if limit <= 0 || len(runes) <= limit {
		return label
	}
	return string(runes[:limit]) + "..."
}

// renderCharts requests a bar and a pie chart for every statistic. Requests run concurrently, but the
// result slots are fixed so the document order never depends on completion order.
func (e *Engine) renderCharts(ctx context.Context, rows []domain.ReportRow) ([]chartSection, error) {
	sections := make([]chartSection, len(chartStatistics))
	g, gctx := errgroup.WithContext(ctx)

	for i, stat := range chartStatistics {
		sections[i].stat = stat
		series := RankTop(rows, stat, e.layout.ChartTopN, e.layout.ChartLabel)
		title := e.labels.ChartTitles[stat]

		g.Go(func() error {
			img, err := e.charts.Render(gctx, domain.ChartBar, series, title)
			if err != nil {
				return fmt.Errorf("render %s bar chart: %w", stat, err)
			}
			sections[i].bar = img
			return nil
		})
		g.Go(func() error {
			img, err := e.charts.Render(gctx, domain.ChartPie, series, title)
			if err != nil {
				return fmt.Errorf("render %s pie chart: %w", stat, err)
			}
			sections[i].pie = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sections, nil
}
