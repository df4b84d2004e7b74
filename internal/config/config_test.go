package config

import (
	"path/filepath"
	"testing"
)

func TestGetDataDirExplicitOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BOOTLOG_DIR", tmp)

	if got := GetDataDir(); got != tmp {
		t.Fatalf("expected %s, got %s", tmp, got)
	}
}

func TestDerivedPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BOOTLOG_DIR", tmp)

	if got := GetIdentityDBPath(); got != filepath.Join(tmp, "identity.db") {
		t.Fatalf("unexpected identity db path %s", got)
	}
	if got := GetDatasetsDir(); got != filepath.Join(tmp, "datasets") {
		t.Fatalf("unexpected datasets dir %s", got)
	}
}

func TestGetDataDirXDGFallback(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BOOTLOG_DIR", "")
	t.Setenv("XDG_DATA_HOME", tmp)

	if got := GetDataDir(); got != filepath.Join(tmp, "bootlog") {
		t.Fatalf("expected XDG-derived dir, got %s", got)
	}
}
