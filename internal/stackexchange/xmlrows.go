package stackexchange

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"os"
)

// Rows is the parsed form of one dump file: every <row> element's attributes
// as one record, plus the column names in order of first appearance so the
// output schema is stable across runs.
type Rows struct {
	Columns []string
	Records []map[string]string
}

// ParseRows streams xmlPath and collects the attributes of every <row>
// element. The dumps are a single root element with row children, so a
// streaming decoder keeps memory proportional to one table's records rather
// than the XML text.
func ParseRows(xmlPath string) (*Rows, error) {
	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", xmlPath, err)
	}
	defer f.Close()

	log.Printf("stackexchange: parsing %s", xmlPath)

	rows := &Rows{}
	seen := map[string]bool{}

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", xmlPath, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}

		record := make(map[string]string, len(start.Attr))
		for _, attr := range start.Attr {
			record[attr.Name.Local] = attr.Value
			if !seen[attr.Name.Local] {
				seen[attr.Name.Local] = true
				rows.Columns = append(rows.Columns, attr.Name.Local)
			}
		}
		rows.Records = append(rows.Records, record)
	}

	log.Printf("stackexchange: parsed %d rows", len(rows.Records))
	return rows, nil
}
