package checks

import (
	"fmt"
	"reflect"
	"strings"

	"vonatinfo/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing a table with its gorm model.
type SchemaReport struct {
	Table          string   `json:"table"`
	Status         string   `json:"status"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Error          string   `json:"error,omitempty"`
}

// CheckSchema verifies the table of model using the model's gorm tags as
// the source of truth. model must implement TableName.
func CheckSchema(db *gorm.DB, model any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	val := reflect.TypeOf(model)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model %T is not a struct", model)
	}
	tabler, ok := reflect.New(val).Interface().(interface{ TableName() string })
	if !ok {
		return nil, fmt.Errorf("model %s does not implement TableName", val.Name())
	}

	report := &SchemaReport{
		Table:          tabler.TableName(),
		Status:         StatusOK,
		MissingColumns: []string{},
		TypeMismatches: []string{},
	}

	actual, err := database.TableColumns(db, report.Table)
	if err != nil {
		report.Status = StatusError
		report.Error = err.Error()
		return report, nil
	}
	types := make(map[string]string, len(actual))
	for _, c := range actual {
		types[c.Name] = c.Type
	}

	for i := 0; i < val.NumField(); i++ {
		tag := val.Field(i).Tag.Get("gorm")
		col := gormSetting(tag, "column")
		if col == "" {
			continue
		}

		actType, exists := types[col]
		if !exists {
			report.MissingColumns = append(report.MissingColumns, col)
			report.Status = StatusError
			continue
		}

		// Only columns with an explicit type are compared.
		if exp := strings.ToLower(gormSetting(tag, "type")); exp != "" && !strings.Contains(actType, exp) {
			report.TypeMismatches = append(report.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", col, exp, actType))
			report.Status = StatusError
		}
	}

	return report, nil
}

// gormSetting returns the value of key in a gorm struct tag.
func gormSetting(tag, key string) string {
	for _, p := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(p, key+":"); ok {
			return v
		}
	}
	return ""
}
