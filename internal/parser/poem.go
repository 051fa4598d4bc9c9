package parser

import (
	"encoding/csv"
	"io"
	"strings"
)

const (
	poemBegin = "BEGIN"
	poemEnd   = "END"
)

// Poem turns a text into chained cards for learning it by heart: every
// paragraph is the back of a card whose front is the paragraph before it.
// The first card starts at BEGIN and the last one ends at END.
func Poem(text string) []Record {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := []string{poemBegin}
	for _, par := range strings.Split(strings.Trim(text, "\n"), "\n\n") {
		if strings.TrimSpace(par) == "" {
			continue
		}
		paragraphs = append(paragraphs, par)
	}
	paragraphs = append(paragraphs, poemEnd)

	records := make([]Record, 0, len(paragraphs)-1)
	for i := 0; i < len(paragraphs)-1; i++ {
		records = append(records, Record{Line: i + 2, Front: paragraphs[i], Back: paragraphs[i+1]})
	}
	return records
}

// WriteCSV writes records in the format ParseCSV reads.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{frontColumn, backColumn}); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Front, rec.Back}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
