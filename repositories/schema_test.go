package repositories

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The repository column lists must agree with the shipped migration;
// a drifted name only surfaces at runtime as an undefined-column error.
func TestRepositoryColumnsExistInSchema(t *testing.T) {
	schema, err := os.ReadFile("../db/migrations/0001_init.up.sql")
	require.NoError(t, err)

	tables := parseSchemaColumns(t, string(schema))

	cases := []struct {
		table   string
		columns string
	}{
		{"players", playerColumns},
		{"tournaments", tournamentColumns},
		{"matches", matchColumns},
		{"formats", "id, name, bracket_type, participant_type, seeding_policy"},
		{"registrations", "id, tournament_id, player_id, partner_id, seed, status, created_at"},
		{"standings", "id, tournament_id, entry_id, display_name, seed, rank, wins, sets_won, sets_lost, games_won, games_lost, created_at"},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			defined := tables[tc.table]
			require.NotEmpty(t, defined, "table %s missing from migration", tc.table)
			for _, col := range strings.Split(tc.columns, ",") {
				col = strings.TrimSpace(col)
				require.Contains(t, defined, col, "column %s.%s not defined in migration", tc.table, col)
			}
		})
	}
}

func parseSchemaColumns(t *testing.T, schema string) map[string]map[string]bool {
	t.Helper()

	tableRe := regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\n\);`)
	columnRe := regexp.MustCompile(`(?m)^ {4}(\w+)\s`)

	tables := make(map[string]map[string]bool)
	for _, tm := range tableRe.FindAllStringSubmatch(schema, -1) {
		cols := make(map[string]bool)
		for _, cm := range columnRe.FindAllStringSubmatch(tm[2], -1) {
			if cm[1] == "CONSTRAINT" {
				continue
			}
			cols[cm[1]] = true
		}
		tables[tm[1]] = cols
	}
	require.NotEmpty(t, tables)
	return tables
}
