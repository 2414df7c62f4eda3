package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// filterFlags binds the StatFilter criteria to command flags. A bound is only set when its flag
// was given, so "--headcount-min 0" still filters.
type filterFlags struct {
	filter domain.StatFilter
	bounds []boundFlag
}

type boundFlag struct {
	name  string
	value float64
	dst   **float64
}

func bindFilterFlags(cmd *cobra.Command) *filterFlags {
	f := &filterFlags{}
	cmd.Flags().StringVarP(&f.filter.Text, "filter", "f", "", "Code or label substring")
	cmd.Flags().StringVar(&f.filter.Code, "code", "", "Code substring")
	cmd.Flags().StringVar(&f.filter.Label, "label", "", "Label substring")

	f.bounds = []boundFlag{
		{name: "headcount-min", dst: &f.filter.HeadcountMin},
		{name: "headcount-max", dst: &f.filter.HeadcountMax},
		{name: "tax-min", dst: &f.filter.TaxMin},
		{name: "tax-max", dst: &f.filter.TaxMax},
		{name: "weight-min", dst: &f.filter.WeightMin},
		{name: "weight-max", dst: &f.filter.WeightMax},
		{name: "pay-fund-min", dst: &f.filter.PayFundMin},
		{name: "pay-fund-max", dst: &f.filter.PayFundMax},
		{name: "avg-salary-min", dst: &f.filter.AvgSalaryMin},
		{name: "avg-salary-max", dst: &f.filter.AvgSalaryMax},
	}
	for i := range f.bounds {
		b := &f.bounds[i]
		cmd.Flags().Float64Var(&b.value, b.name, 0, "Inclusive bound")
	}
	return f
}

func (f *filterFlags) resolve(cmd *cobra.Command) domain.StatFilter {
	for _, b := range f.bounds {
		if cmd.Flags().Changed(b.name) {
			v := b.value
			*b.dst = &v
		}
	}
	return f.filter
}
