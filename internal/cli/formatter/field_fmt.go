package formatter

import (
	"strconv"

	"github.com/nvetter/fieldline/internal/domain"
)

// FormatFieldList renders a thread's active fields as a table, with group
// children indented beneath their group in child order.
func FormatFieldList(set domain.FieldSet) string {
	headers := []string{"#", "NAME", "ROLE", "ID"}
	var rows [][]string

	for _, f := range set.TopLevel() {
		rows = append(rows, fieldRow(f, ""))
		if f.IsGroup {
			for _, c := range set.Children(f.ID) {
				rows = append(rows, fieldRow(c, "  "))
			}
		}
	}

	return RenderTable(headers, rows)
}

func fieldRow(f domain.Field, indent string) []string {
	return []string{
		indent + strconv.Itoa(f.Order),
		indent + f.Name,
		RoleBadge(f.Role()),
		Dim(shortID(f.ID)),
	}
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
