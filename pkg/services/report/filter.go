package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// DescribeFilter lists the criteria of filter in the words of terms, for example
// `code contains "01.1"; average headcount >= 10`. An empty filter describes as "".
func DescribeFilter(filter domain.StatFilter, terms FilterTerms) string {
	var parts []string
	for _, match := range []struct {
		format string
		value  string
	}{
		{terms.Text, filter.Text},
		{terms.Code, filter.Code},
		{terms.Label, filter.Label},
	} {
		if v := strings.TrimSpace(match.value); v != "" {
			parts = append(parts, fmt.Sprintf(match.format, v))
		}
	}

	for _, bound := range []struct {
		name     string
		min, max *float64
	}{
		{terms.Headcount, filter.HeadcountMin, filter.HeadcountMax},
		{terms.TaxAmount, filter.TaxMin, filter.TaxMax},
		{terms.Weight, filter.WeightMin, filter.WeightMax},
		{terms.PayFund, filter.PayFundMin, filter.PayFundMax},
		{terms.AvgSalary, filter.AvgSalaryMin, filter.AvgSalaryMax},
	} {
		if bound.min != nil {
			parts = append(parts, bound.name+" >= "+formatBound(*bound.min))
		}
		if bound.max != nil {
			parts = append(parts, bound.name+" <= "+formatBound(*bound.max))
		}
	}

	return strings.Join(parts, terms.Separator)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
