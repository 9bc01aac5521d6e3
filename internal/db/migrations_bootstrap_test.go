package db

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/timesheet/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openTestDatabase(t)

	for table, columns := range map[string][]string{
		"users":          {"id", "email", "name", "fmno", "roles", "password_hash", "must_change_password", "created_at"},
		"charge_codes":   {"id", "code", "description", "is_active", "created_at", "updated_at"},
		"time_entries":   {"id", "user_id", "charge_code_id", "date", "hours"},
		"admin_settings": {"id", "oldest_editable_period", "latest_editable_period", "updated_at"},
	} {
		present := loadTableColumns(t, database, table)
		for _, column := range columns {
			if _, ok := present[column]; !ok {
				t.Fatalf("expected column %s.%s, got %v", table, column, present)
			}
		}
	}

	for _, index := range []string{"idx_users_email", "idx_users_fmno", "idx_charge_codes_code", "uidx_time_entries_user_code_date"} {
		if loadSQLiteObjectSQL(t, database, "index", index) == "" {
			t.Fatalf("expected index %s to exist", index)
		}
	}

	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "timesheet-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)
	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openTestDatabaseAt(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)
	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestApplyMigrationsRunsOnlyPendingVersionsInOrder(t *testing.T) {
	database := openBareSQLite(t)

	files := fstest.MapFS{
		"0002_add_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"0001_add_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);\nINSERT INTO a(id) VALUES (1);")},
		"README.md":      {Data: []byte("ignored")},
		"notes_0003.sql": {Data: []byte("ignored too")},
	}
	if err := applyMigrations(database, files); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	files["0003_add_c.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE c (id INTEGER)")}
	if err := applyMigrations(database, files); err != nil {
		t.Fatalf("apply migrations again: %v", err)
	}

	records := loadMigrationRecords(t, database)
	versions := make([]string, 0, len(records))
	for _, record := range records {
		versions = append(versions, record.Version)
	}
	if !reflect.DeepEqual(versions, []string{"0001", "0002", "0003"}) {
		t.Fatalf("unexpected applied versions %v", versions)
	}

	var rows int64
	if err := database.Table("a").Count(&rows).Error; err != nil {
		t.Fatalf("count a: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected migration 0001 to run once, got %d rows", rows)
	}
}

func TestApplyMigrationsRejectsDuplicateVersions(t *testing.T) {
	database := openBareSQLite(t)

	err := applyMigrations(database, fstest.MapFS{
		"0001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"0001_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER)")},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate migration version 0001") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestApplyMigrationsRollsBackFailedMigration(t *testing.T) {
	database := openBareSQLite(t)

	err := applyMigrations(database, fstest.MapFS{
		"0001_broken.sql": {Data: []byte("CREATE TABLE a (id INTEGER); INSERT INTO missing VALUES (1)")},
	})
	if err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if len(loadMigrationRecords(t, database)) != 0 {
		t.Fatal("expected failed migration to stay unrecorded")
	}
	if loadSQLiteObjectSQL(t, database, "table", "a") != "" {
		t.Fatal("expected failed migration to be rolled back")
	}
}

func TestSplitSQLStatements(t *testing.T) {
	t.Parallel()

	got := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ; CREATE INDEX i ON a(id)\n")
	want := []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX i ON a(id)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitSQLStatements = %q, want %q", got, want)
	}
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDatabaseAt(t, filepath.Join(t.TempDir(), "timesheet-test.db"))
}

func openTestDatabaseAt(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

// openBareSQLite skips the embedded migrations.
func openBareSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "timesheet-bare.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open bare sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	embedded, err := loadMigrations(embeddedmigrations.Files)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expected := make([]string, 0, len(embedded))
	for _, next := range embedded {
		expected = append(expected, next.Version)
	}

	actual := make([]string, 0)
	for _, record := range loadMigrationRecords(t, database) {
		actual = append(actual, record.Version)
	}
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expected, actual)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(`SELECT name FROM pragma_table_info(?)`, tableName).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}
