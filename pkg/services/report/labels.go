package report

import (
	"golang.org/x/text/language"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// Statistic is a metric that gets its own chart section.
type Statistic string

const (
	StatHeadcount Statistic = "headcount"
	StatPayFund   Statistic = "pay_fund"
	StatAvgSalary Statistic = "avg_salary"
)

// Labels holds every fixed string printed in a report.
type Labels struct {
	Language language.Tag

	Title          string
	DetailTitle    string // format, %s = record label
	GeneratedAt    string // format, %s = timestamp
	TimeLayout     string
	FilterNote     string // format, %s = filter description
	NoData         string
	TotalRecords   string // format, %d = row count
	SummaryHeading string
	Currency       string
	PageFooter     string // format, %d = page, %d = total

	Columns       map[ColumnKey]string
	DetailFields  map[ColumnKey]string
	CreatedAt     string
	UpdatedAt     string
	SummaryFields map[ColumnKey]string

	ChartHeadings map[Statistic]string
	ChartTitles   map[Statistic]string

	Filter FilterTerms
}

// FilterTerms describe the criteria of a StatFilter in a filter note.
type FilterTerms struct {
	Text      string // format, %s = search text
	Code      string // format, %s = code fragment
	ExactCode string // format, %s = full code
	Label     string // format, %s = label fragment
	Headcount string
	TaxAmount string
	Weight    string
	PayFund   string
	AvgSalary string
	Separator string
}

func LabelsFor(locale domain.Locale) Labels {
	if locale == domain.LocaleRussian {
		return RussianLabels()
	}
	return EnglishLabels()
}

func EnglishLabels() Labels {
	return Labels{
		Language:       language.English,
		Title:          "Summary statistics report",
		DetailTitle:    "Detail: %s",
		GeneratedAt:    "Generated: %s",
		TimeLayout:     "2006-01-02 15:04:05",
		FilterNote:     "Filter applied: %s",
		NoData:         "No data to display.",
		TotalRecords:   "Total records: %d",
		SummaryHeading: "Summary for the selected records:",
		Currency:       "KZT",
		PageFooter:     "Page %d of %d",
		Columns: map[ColumnKey]string{
			ColumnCode:      "Code",
			ColumnLabel:     "Activity",
			ColumnCount:     "Count",
			ColumnHeadcount: "Staff",
			ColumnPayFund:   "Pay fund",
			ColumnAvgSalary: "Avg pay",
		},
		DetailFields: map[ColumnKey]string{
			ColumnCode:          "Activity code:",
			ColumnLabel:         "Activity:",
			ColumnCount:         "Taxpayers:",
			ColumnHeadcount:     "Average headcount:",
			ColumnPayFund:       "Pay fund:",
			ColumnAvgSalary:     "Average salary:",
			ColumnTaxAmount:     "Tax amount:",
			ColumnWeightPercent: "Weight:",
		},
		CreatedAt: "Record created:",
		UpdatedAt: "Record updated:",
		SummaryFields: map[ColumnKey]string{
			ColumnCount:     "Total taxpayers",
			ColumnHeadcount: "Total headcount",
			ColumnPayFund:   "Total pay fund",
			ColumnAvgSalary: "Average salary",
			ColumnTaxAmount: "Total taxes",
		},
		ChartHeadings: map[Statistic]string{
			StatHeadcount: "Headcount distribution",
			StatPayFund:   "Pay fund distribution",
			StatAvgSalary: "Average salary distribution",
		},
		ChartTitles: map[Statistic]string{
			StatHeadcount: "Average headcount, top activities",
			StatPayFund:   "Pay fund, top activities",
			StatAvgSalary: "Average salary, top activities",
		},
		Filter: FilterTerms{
			Text:      `code or activity contains "%s"`,
			Code:      `code contains "%s"`,
			ExactCode: `code is "%s"`,
			Label:     `activity contains "%s"`,
			Headcount: "average headcount",
			TaxAmount: "tax amount",
			Weight:    "weight",
			PayFund:   "pay fund",
			AvgSalary: "average salary",
			Separator: "; ",
		},
	}
}

func RussianLabels() Labels {
	return Labels{
		Language:       language.Russian,
		Title:          `Отчет по данным "Сводная"`,
		DetailTitle:    "Детальная информация: %s",
		GeneratedAt:    "Дата создания: %s",
		TimeLayout:     "02.01.2006 15:04:05",
		FilterNote:     "Применен фильтр: %s",
		NoData:         "Нет данных для отображения.",
		TotalRecords:   "Всего записей: %d",
		SummaryHeading: "Сводная информация по выбранным записям:",
		Currency:       "тг.",
		PageFooter:     "Страница %d из %d",
		Columns: map[ColumnKey]string{
			ColumnCode:      "Код ОКЭД",
			ColumnLabel:     "Вид деятельности",
			ColumnCount:     "Кол-во",
			ColumnHeadcount: "Числ.",
			ColumnPayFund:   "ФОТ",
			ColumnAvgSalary: "Ср. ЗП",
		},
		DetailFields: map[ColumnKey]string{
			ColumnCode:          "Код ОКЭД:",
			ColumnLabel:         "Вид деятельности:",
			ColumnCount:         "Количество НП:",
			ColumnHeadcount:     "Средняя численность работников:",
			ColumnPayFund:       "Сумма по полю ФОТ:",
			ColumnAvgSalary:     "Средняя зарплата:",
			ColumnTaxAmount:     "Сумма налогов:",
			ColumnWeightPercent: "Удельный вес:",
		},
		CreatedAt: "Дата создания записи:",
		UpdatedAt: "Дата обновления записи:",
		SummaryFields: map[ColumnKey]string{
			ColumnCount:     "Общее количество НП",
			ColumnHeadcount: "Общая численность работников",
			ColumnPayFund:   "Общий фонд оплаты труда",
			ColumnAvgSalary: "Средняя заработная плата",
			ColumnTaxAmount: "Общая сумма налогов",
		},
		ChartHeadings: map[Statistic]string{
			StatHeadcount: "Диаграммы распределения численности работников",
			StatPayFund:   "Диаграммы распределения фонда оплаты труда",
			StatAvgSalary: "Диаграммы распределения средней заработной платы",
		},
		ChartTitles: map[Statistic]string{
			StatHeadcount: "Распределение численности работников",
			StatPayFund:   "Распределение фонда оплаты труда",
			StatAvgSalary: "Распределение средней заработной платы",
		},
		Filter: FilterTerms{
			Text:      `код или вид деятельности содержит "%s"`,
			Code:      `код ОКЭД содержит "%s"`,
			ExactCode: `код ОКЭД равен "%s"`,
			Label:     `вид деятельности содержит "%s"`,
			Headcount: "средняя численность",
			TaxAmount: "сумма налогов",
			Weight:    "удельный вес",
			PayFund:   "сумма ФОТ",
			AvgSalary: "средняя зарплата",
			Separator: "; ",
		},
	}
}
