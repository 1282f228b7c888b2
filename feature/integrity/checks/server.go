package checks

import (
	"fmt"
	"reflect"
	"strings"

	"content-planner/core/database"
	"content-planner/feature/calendar"
	"content-planner/feature/performance"

	"gorm.io/gorm"
)

// Models lists the tables the application owns, as GORM models.
var Models = []any{
	calendar.EntryRecord{},
	performance.ImportRun{},
}

// ServerReport strictly types the result of a server integrity check.
type ServerReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckServerIntegrity verifies the database schema using the GORM models as the source of truth.
func CheckServerIntegrity(db *gorm.DB) (*ServerReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &ServerReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
		Matched: true,
	}

	for _, model := range Models {
		tableName, tbl, err := checkModel(db, model)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Matched = false
			continue
		}
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[tableName] = tbl
	}

	return report, nil
}

func checkModel(db *gorm.DB, model any) (string, TableReport, error) {
	val := reflect.TypeOf(model)
	tabler, ok := reflect.New(val).Interface().(interface{ TableName() string })
	if !ok {
		return "", TableReport{}, fmt.Errorf("model %s does not implement TableName", val.Name())
	}
	tableName := tabler.TableName()

	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualCols, err := database.GetTableColumns(db, tableName)
	if err != nil {
		return "", tbl, fmt.Errorf("failed to inspect table %s: %v", tableName, err)
	}
	actual := database.ColumnSet(actualCols)

	for i := 0; i < val.NumField(); i++ {
		gormTag := val.Field(i).Tag.Get("gorm")

		colName := parseGormColumn(gormTag)
		if colName == "" {
			continue
		}

		actCol, exists := actual[colName]
		if !exists {
			tbl.MissingColumns = append(tbl.MissingColumns, colName)
			tbl.Status = "error"
			continue
		}

		// Only columns with an explicit type are compared, loosely.
		if expType := strings.ToLower(parseGormType(gormTag)); expType != "" && !strings.Contains(actCol.Type, expType) {
			tbl.TypeMismatches = append(tbl.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type))
			tbl.Status = "error"
		}
	}

	return tableName, tbl, nil
}

func parseGormColumn(tag string) string {
	return gormTagValue(tag, "column:")
}

func parseGormType(tag string) string {
	return gormTagValue(tag, "type:")
}

func gormTagValue(tag, key string) string {
	for _, p := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(p, key); ok {
			return v
		}
	}
	return ""
}
