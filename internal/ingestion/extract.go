package ingestion

import (
	"strings"

	"github.com/aridharma/sheetdrop/internal/domain"
)

// Alias lists map heterogeneous spreadsheet headers onto the fixed contact
// schema. Order matters: when a row carries several matching columns the
// earliest alias wins.
var (
	nameAliases    = []string{"name", "full_name", "fullname", "nama", "Name", "Full Name"}
	emailAliases   = []string{"email", "Email", "email_address", "e-mail"}
	phoneAliases   = []string{"phone", "Phone", "phone_number", "mobile", "Mobile", "telefon"}
	companyAliases = []string{"company", "Company", "organization", "Organization", "perusahaan"}
)

// ExtractColumn resolves a semantic field from a raw row by trying each alias
// in order. It returns nil when no alias holds a non-empty value; absence is a
// normal outcome, not an error. Surrounding whitespace is trimmed.
func ExtractColumn(row map[string]string, aliases []string) *string {
	for _, key := range aliases {
		value, ok := row[key]
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		return &trimmed
	}
	return nil
}

// NormalizeRow maps a raw header->cell row into the contact schema. Pure and
// deterministic; unmatched fields stay nil.
func NormalizeRow(row map[string]string) domain.ContactRow {
	return domain.ContactRow{
		Name:    ExtractColumn(row, nameAliases),
		Email:   ExtractColumn(row, emailAliases),
		Phone:   ExtractColumn(row, phoneAliases),
		Company: ExtractColumn(row, companyAliases),
	}
}

// SchemaColumns returns the output column order reported in process summaries.
func SchemaColumns() []string {
	return []string{"name", "email", "phone", "company"}
}
