package database

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// GetTableColumns retrieves the column definitions of a table. Names and
// types are lower-cased. A missing table yields no columns on SQLite.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		type sqliteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string `gorm:"column:dflt_value"`
			Pk         int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// TableReport is the schema check result of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// SchemaReport is the schema check result of the row store.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

// Migrate creates or extends the row store tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate row store: %w", err)
	}
	return nil
}

// CheckSchema compares the live tables with the row models. A column whose
// tag declares a type must report a type containing it.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{Matched: true, Tables: map[string]TableReport{}}
	for _, model := range Models() {
		typ := reflect.TypeOf(model).Elem()
		tableName := model.(interface{ TableName() string }).TableName()

		actual, err := GetTableColumns(db, tableName)
		if err != nil {
			return nil, err
		}
		actualMap := make(map[string]ColumnInfo, len(actual))
		for _, col := range actual {
			actualMap[col.Field] = col
		}

		tbl := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}
		for i := 0; i < typ.NumField(); i++ {
			tag := typ.Field(i).Tag.Get("gorm")
			colName := parseGormColumn(tag)
			if colName == "" {
				continue
			}
			col, ok := actualMap[colName]
			if !ok {
				tbl.MissingColumns = append(tbl.MissingColumns, colName)
				continue
			}
			// SQLite reports declared types verbatim, MySQL adds display widths.
			if expType := strings.ToLower(parseGormType(tag)); expType != "" && !strings.Contains(col.Type, expType) {
				tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", colName, expType, col.Type))
			}
		}
		if len(tbl.MissingColumns) > 0 || len(tbl.TypeMismatches) > 0 {
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[tableName] = tbl
	}
	return report, nil
}

// parseGormColumn extracts the value of "column:" from a gorm tag.
func parseGormColumn(tag string) string {
	return gormTagValue(tag, "column")
}

// parseGormType extracts the value of "type:" from a gorm tag.
func parseGormType(tag string) string {
	return gormTagValue(tag, "type")
}

func gormTagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(part), key+":"); ok {
			return v
		}
	}
	return ""
}
