package database

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE a();", want: "CREATE TABLE a();"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a();", want: "CREATE TABLE a();"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a();\n-- +migrate Down\nDROP TABLE a;", want: "CREATE TABLE a();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.TrimSpace(ExtractUpMigration(tt.content))
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMigrationFilesSorted(t *testing.T) {
	migrations := fstest.MapFS{
		"002_b.sql":  &fstest.MapFile{Data: []byte("SELECT 2;")},
		"001_a.sql":  &fstest.MapFile{Data: []byte("SELECT 1;")},
		"README.txt": &fstest.MapFile{Data: []byte("ignored")},
	}

	files, err := migrationFiles(migrations)
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	if len(files) != 2 || files[0] != "001_a.sql" || files[1] != "002_b.sql" {
		t.Fatalf("files = %v", files)
	}
}

func TestEmbeddedMigrationsHaveUpSection(t *testing.T) {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	files, err := migrationFiles(sub)
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for _, file := range files {
		content, err := fs.ReadFile(sub, file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		if strings.TrimSpace(ExtractUpMigration(string(content))) == "" {
			t.Fatalf("%s has no up migration", file)
		}
	}
}
