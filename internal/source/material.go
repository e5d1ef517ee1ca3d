package source

import (
	"encoding/xml"
	"os"

	"github.com/henrietta/dispatch/internal/normalize"
)

// MaterialRow is one job-material line from the material-not-issued report.
// A job is short on material when Required exceeds Issued on any line.
type MaterialRow struct {
	JobID    string
	Part     string
	Required float64
	Issued   float64
}

// Short reports whether this line represents an actual shortage.
func (m MaterialRow) Short() bool { return m.Required > m.Issued }

// materialReport mirrors the ERP's material-not-issued XML export shape.
type materialReport struct {
	Results []materialResult `xml:"Results"`
}

type materialResult struct {
	JobNum      string `xml:"JobMtl_JobNum"`
	PartNum     string `xml:"JobMtl_PartNum"`
	RequiredQty string `xml:"JobMtl_RequiredQty"`
	IssuedQty   string `xml:"JobMtl_IssuedQty"`
}

// Materials loads the optional material-not-issued XML report.
func (l *Loader) Materials(path string) []MaterialRow {
	data, err := os.ReadFile(path)
	if err != nil {
		l.report(Report{Source: MaterialNotIssued, Path: path, Error: err.Error()})
		return nil
	}

	var doc materialReport
	if err := xml.Unmarshal(data, &doc); err != nil {
		l.report(Report{Source: MaterialNotIssued, Path: path, Error: err.Error()})
		return nil
	}

	skipped := 0
	rows := make([]MaterialRow, 0, len(doc.Results))
	for i, res := range doc.Results {
		num := i + 1
		jobID, ok := normalize.String(res.JobNum)
		if !ok {
			skipped++
			continue
		}
		mr := MaterialRow{JobID: jobID}
		mr.Part, _ = normalize.String(res.PartNum)
		mr.Required = l.number(MaterialNotIssued, num, "JobMtl_RequiredQty", res.RequiredQty)
		mr.Issued = l.number(MaterialNotIssued, num, "JobMtl_IssuedQty", res.IssuedQty)
		rows = append(rows, mr)
	}

	l.report(Report{
		Source: MaterialNotIssued, Path: path, Available: true,
		Rows: len(rows), Skipped: skipped, ModTime: modTimeOf(path),
	})
	return rows
}
