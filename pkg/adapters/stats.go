package adapters

import (
	"database/sql"
	"math"

	"github.com/shopspring/decimal"

	"github.com/de-tools/statreport/pkg/models/api"
	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/models/store"
)

// MapFloatStoreToDomain turns a nullable column into a decimal. NaN and infinities become null.
func MapFloatStoreToDomain(v sql.NullFloat64) decimal.NullDecimal {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(v.Float64))
}

func MapFloatDomainToApi(v decimal.NullDecimal) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Decimal.InexactFloat64()
	return &f
}

func MapStatRecordStoreToDomain(r store.StatRecord) domain.ReportRow {
	return domain.ReportRow{
		ID:            r.ID,
		Code:          r.Code,
		Label:         r.Label,
		Count:         r.Count,
		Headcount:     MapFloatStoreToDomain(r.Headcount),
		PayFund:       MapFloatStoreToDomain(r.PayFund),
		AvgSalary:     MapFloatStoreToDomain(r.AvgSalary),
		TaxAmount:     MapFloatStoreToDomain(r.TaxAmount),
		WeightPercent: MapFloatStoreToDomain(r.WeightPercent),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func MapStatRecordsStoreToDomain(records []store.StatRecord) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, MapStatRecordStoreToDomain(r))
	}
	return rows
}

func MapReportRowDomainToApi(r domain.ReportRow) api.StatRecord {
	var count *int64
	if r.Count.Valid {
		c := r.Count.Int64
		count = &c
	}
	return api.StatRecord{
		ID:            r.ID,
		Code:          r.Code,
		Label:         r.Label,
		Count:         count,
		Headcount:     MapFloatDomainToApi(r.Headcount),
		PayFund:       MapFloatDomainToApi(r.PayFund),
		AvgSalary:     MapFloatDomainToApi(r.AvgSalary),
		TaxAmount:     MapFloatDomainToApi(r.TaxAmount),
		WeightPercent: MapFloatDomainToApi(r.WeightPercent),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func MapReportRowsDomainToApi(rows []domain.ReportRow) []api.StatRecord {
	res := make([]api.StatRecord, 0, len(rows))
	for _, r := range rows {
		res = append(res, MapReportRowDomainToApi(r))
	}
	return res
}

func MapStatFilterDomainToStore(f domain.StatFilter) store.StatQuery {
	return store.StatQuery{
		Text:         f.Text,
		Code:         f.Code,
		Label:        f.Label,
		HeadcountMin: f.HeadcountMin,
		HeadcountMax: f.HeadcountMax,
		TaxMin:       f.TaxMin,
		TaxMax:       f.TaxMax,
		WeightMin:    f.WeightMin,
		WeightMax:    f.WeightMax,
		PayFundMin:   f.PayFundMin,
		PayFundMax:   f.PayFundMax,
		AvgSalaryMin: f.AvgSalaryMin,
		AvgSalaryMax: f.AvgSalaryMax,
	}
}

func MapStatCodesStoreToDomain(codes []store.StatCode) []domain.StatCode {
	res := make([]domain.StatCode, 0, len(codes))
	for _, c := range codes {
		res = append(res, domain.StatCode{Code: c.Code, Label: c.Label})
	}
	return res
}

func MapStatCodesDomainToApi(codes []domain.StatCode) []api.StatCode {
	res := make([]api.StatCode, 0, len(codes))
	for _, c := range codes {
		res = append(res, api.StatCode{Code: c.Code, Label: c.Label})
	}
	return res
}

func MapStatTotalsStoreToDomain(t store.StatTotals) domain.StatTotals {
	totals := domain.StatTotals{
		Records:   t.Records,
		Taxpayers: t.Taxpayers.Int64,
		AvgWeight: MapFloatStoreToDomain(t.AvgWeight),
	}
	if tax := MapFloatStoreToDomain(t.TaxAmount); tax.Valid {
		totals.TaxAmount = tax.Decimal
	}
	return totals
}

func MapStatTotalsDomainToApi(t domain.StatTotals) api.StatTotals {
	return api.StatTotals{
		Records:   t.Records,
		Taxpayers: t.Taxpayers,
		TaxAmount: t.TaxAmount.InexactFloat64(),
		AvgWeight: MapFloatDomainToApi(t.AvgWeight),
	}
}
