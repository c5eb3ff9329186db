package loader

import (
	"encoding/xml"
	"fmt"

	"btt/internal/domain"
)

// XML export layout: a <testcases> collection of <testcase> elements,
// or a single <testcase> document. Step descriptions carry the
// natural-language command.
type xmlExport struct {
	XMLName xml.Name  `xml:"testcases"`
	Cases   []xmlCase `xml:"testcase"`
}

type xmlCase struct {
	ID       string    `xml:"id,attr"`
	Title    string    `xml:"title,attr"`
	Priority string    `xml:"priority,attr"`
	Steps    []xmlStep `xml:"steps>step"`
}

type xmlStep struct {
	Description string `xml:"description"`
	Expected    string `xml:"expected"`
	Independent bool   `xml:"independent,attr"`
}

func (l *Loader) parseXML(path string, data []byte) ([]*domain.TestCase, error) {
	var export xmlExport
	if err := xml.Unmarshal(data, &export); err != nil {
		// Fall back to a document whose root is a single testcase
		var single struct {
			XMLName xml.Name `xml:"testcase"`
			xmlCase
		}
		if err2 := xml.Unmarshal(data, &single); err2 != nil {
			return nil, &domain.MalformedSourceError{
				Source: path,
				Reason: fmt.Sprintf("invalid xml: %v", err),
			}
		}
		export.Cases = []xmlCase{single.xmlCase}
	}

	if len(export.Cases) == 0 {
		return nil, &domain.MalformedSourceError{Source: path, Reason: "no test cases in export"}
	}

	var cases []*domain.TestCase
	for _, xc := range export.Cases {
		steps := make([]rawStep, 0, len(xc.Steps))
		for _, xs := range xc.Steps {
			steps = append(steps, rawStep{
				description: xs.Description,
				expected:    xs.Expected,
				independent: xs.Independent,
			})
		}
		tc, err := buildCase(path, xc.ID, xc.Title, xc.Priority, steps)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}

	return cases, nil
}
