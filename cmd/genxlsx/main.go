// Command genxlsx writes a sample contact spreadsheet with mixed header
// aliases and a few degenerate rows, for exercising the upload pipeline by
// hand.
package main

import (
	"flag"
	"log"

	"github.com/xuri/excelize/v2"
)

func main() {
	out := flag.String("out", "sample-contacts.xlsx", "output file path")
	flag.Parse()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"Full Name", "e-mail", "telefon", "perusahaan"},
		{"Budi Santoso", "budi@example.com", "081234567890", "PT Maju Jaya"},
		{"Ana Wijaya", "ana@example.com", "", "CV Berkah"},
		{"", "", "", ""},
		{"Citra Lestari", "", "085512345678", ""},
		{"", "dodi@example.com", "", "Dodi & Co"},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}

	if err := f.SaveAs(*out); err != nil {
		log.Fatalf("failed to save %s: %v", *out, err)
	}
	log.Printf("wrote %s (%d data rows)", *out, len(rows)-1)
}
