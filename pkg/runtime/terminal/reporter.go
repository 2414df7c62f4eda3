package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// Reporter outputs command results to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

const (
	importTemplate = `{{.Source}}: {{.Imported}} imported, {{.Skipped}} skipped of {{.Total}} rows
`
	documentTemplate = `Wrote {{.Name}} ({{len .Data}} bytes) to {{.Path}}
`
)

var templates = template.Must(template.New("import").Parse(importTemplate))

func init() {
	template.Must(templates.New("document").Parse(documentTemplate))
}

func (c *Reporter) ImportResult(result domain.ImportResult) error {
	return c.execute("import", result)
}

func (c *Reporter) DocumentWritten(doc *domain.Document, path string) error {
	return c.execute("document", struct {
		*domain.Document
		Path string
	}{doc, path})
}

func (c *Reporter) execute(name string, data any) error {
	if err := templates.ExecuteTemplate(c.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s output: %w", name, err)
	}
	return nil
}
