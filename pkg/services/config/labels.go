package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/report"
)

// LoadLabels returns the built-in labels of locale with overrides from the INI file at path applied.
// The file has one section per locale:
//
//	[ru]
//	title = Отчет по данным "Сводная"
//	page_footer = Стр. %d / %d
//	column.label = Наименование
func LoadLabels(path string, locale domain.Locale) (report.Labels, error) {
	labels := report.LabelsFor(locale)
	if path == "" {
		return labels, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return report.Labels{}, fmt.Errorf("failed to read labels file: %w", err)
	}
	section, err := file.GetSection(string(locale))
	if err != nil {
		return labels, nil
	}

	fields := map[string]*string{
		"title":           &labels.Title,
		"detail_title":    &labels.DetailTitle,
		"generated_at":    &labels.GeneratedAt,
		"time_layout":     &labels.TimeLayout,
		"filter_note":     &labels.FilterNote,
		"no_data":         &labels.NoData,
		"total_records":   &labels.TotalRecords,
		"summary_heading": &labels.SummaryHeading,
		"currency":        &labels.Currency,
		"page_footer":     &labels.PageFooter,
	}

	columns := make(map[report.ColumnKey]string, len(labels.Columns))
	for k, v := range labels.Columns {
		columns[k] = v
	}

	for _, key := range section.Keys() {
		name := key.Name()
		if column, ok := strings.CutPrefix(name, "column."); ok {
			columns[report.ColumnKey(column)] = key.String()
			continue
		}
		field, ok := fields[name]
		if !ok {
			return report.Labels{}, fmt.Errorf("labels file: unknown key %q in section [%s]", name, locale)
		}
		*field = key.String()
	}
	labels.Columns = columns

	if strings.Count(labels.PageFooter, "%d") != 2 {
		return report.Labels{}, fmt.Errorf("labels file: page_footer must contain two %%d verbs, got %q", labels.PageFooter)
	}
	return labels, nil
}
