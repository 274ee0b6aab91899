// Package transfer implements JSON export and import of the page content,
// used for backups and for moving an installation between hosts.
package transfer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// contentTables lists every table included in an export. Only page content
// moves between installations; analytics, auth and cache tables stay out of
// the document in both directions.
var contentTables = []string{
	"settings",
	"links",
	"icon_links",
}

// TableDump is one table's full contents.
type TableDump struct {
	Name string           `json:"name"`
	Rows []map[string]any `json:"rows"`
}

// Document is the export envelope.
type Document struct {
	Tables []TableDump `json:"tables"`
}

// Export serializes all content tables into a JSON document.
func Export(db *gorm.DB) ([]byte, error) {
	doc := Document{Tables: make([]TableDump, 0, len(contentTables))}

	for _, name := range contentTables {
		var rows []map[string]any
		if err := db.Table(name).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to export table %s: %w", name, err)
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		doc.Tables = append(doc.Tables, TableDump{Name: name, Rows: rows})
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Import replaces the contents of every table present in the document inside
// one transaction. Tables outside the content set are skipped with a logged
// error rather than failing the import, so documents from newer versions
// still restore what they can. Row keys are matched against the live schema:
// unknown columns are ignored and absent columns are left NULL.
func Import(dbManager cartridge.DBManager, logger *slog.Logger, data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid import document: %w", err)
	}

	allowed := make(map[string]bool, len(contentTables))
	for _, name := range contentTables {
		allowed[name] = true
	}

	db := dbManager.GetConnection()
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		for _, table := range doc.Tables {
			if !allowed[table.Name] {
				logger.Error("Skipping unknown table in import document", slog.String("table", table.Name))
				continue
			}

			columns, err := tableColumns(tx, table.Name)
			if err != nil {
				return err
			}

			if err := tx.Exec("DELETE FROM " + table.Name).Error; err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table.Name, err)
			}
			tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table.Name)

			for _, row := range table.Rows {
				if err := insertRow(tx, table.Name, columns, row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// tableColumns returns the live column set for a table.
func tableColumns(tx *gorm.DB, table string) (map[string]bool, error) {
	var infos []struct {
		Name string `gorm:"column:name"`
	}
	if err := tx.Raw("PRAGMA table_info(" + table + ")").Scan(&infos).Error; err != nil {
		return nil, fmt.Errorf("failed to read schema for table %s: %w", table, err)
	}
	columns := make(map[string]bool, len(infos))
	for _, info := range infos {
		columns[info.Name] = true
	}
	return columns, nil
}

func insertRow(tx *gorm.DB, table string, columns map[string]bool, row map[string]any) error {
	var names []string
	var args []any
	for column, value := range row {
		if !columns[column] {
			continue
		}
		names = append(names, column)
		args = append(args, value)
	}
	if len(names) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(names, ", "),
		strings.TrimSuffix(strings.Repeat("?,", len(names)), ","))

	if err := tx.Exec(query, args...).Error; err != nil {
		return fmt.Errorf("failed to insert row into %s: %w", table, err)
	}
	return nil
}
