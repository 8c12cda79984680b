package repository

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Колонки, которые репозитории подставляют в SELECT, должны существовать
// в DDL миграции. Расхождение здесь ломает каждый запрос к таблице
func TestRepositoryColumnsMatchMigration(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/00001_init.sql")
	require.NoError(t, err)

	tables := parseCreateTables(t, string(ddl))

	cases := []struct {
		table   string
		columns string
	}{
		{"properties", propertyColumns},
		{"users", userColumns},
		{"bookings", bookingColumns},
	}

	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			defined, ok := tables[tc.table]
			require.True(t, ok, "table %s not found in migration", tc.table)

			for _, column := range splitColumns(tc.columns) {
				require.Contains(t, defined, column,
					"column %s selected by repository but missing from %s DDL", column, tc.table)
			}
		})
	}
}

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE (\w+)\s*\((.*?)\n\);`)

// parseCreateTables собирает имена колонок каждой таблицы из текста миграции
func parseCreateTables(t *testing.T, ddl string) map[string]map[string]bool {
	t.Helper()

	tables := make(map[string]map[string]bool)
	for _, match := range createTableRe.FindAllStringSubmatch(ddl, -1) {
		columns := make(map[string]bool)
		for _, line := range strings.Split(match[2], "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			name := strings.ToLower(fields[0])
			switch name {
			case "primary", "foreign", "unique", "check", "constraint", "exclude":
				continue
			}
			columns[name] = true
		}
		tables[match[1]] = columns
	}
	return tables
}

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	columns := make([]string, 0, len(parts))
	for _, part := range parts {
		columns = append(columns, strings.TrimSpace(part))
	}
	return columns
}
