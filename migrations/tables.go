package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
)

// RequiredTables are the tables the API reads and writes, in creation order.
var RequiredTables = []string{
	constants.TableUsers,
	constants.TablePasswordResetCodes,
	constants.TableZipLocations,
	constants.TableEvents,
	constants.TableRSVPs,
}

// MissingTables reports which required tables do not exist in the current schema.
// It is used at startup when automatic migration is disabled.
func MissingTables(ctx context.Context, db database.Executor) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		existing[strings.ToLower(name)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var missing []string
	for _, table := range RequiredTables {
		if _, ok := existing[table]; !ok {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
