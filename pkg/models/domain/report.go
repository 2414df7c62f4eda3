package domain

// ChartKind selects the chart type requested from a chart renderer.
type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

// ChartPoint is one labelled value of a chart series.
type ChartPoint struct {
	Label string
	Value float64
}

// Document is a finished report ready to be served or archived.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}
