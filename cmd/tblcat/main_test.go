package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func noEnv(string) string { return "" }

func runTblcat(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, noEnv, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Summary(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id,name,score\n1,alice,3.5\n2,bob,4\n")
	b := writeFile(t, dir, "b.txt", "item;price\napple;1,25\n")

	code, out, errOut := runTblcat(t, a, b)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	for _, want := range []string{
		"comma", "international", "id:int name:string score:float",
		"semicolon", "continental", "item:string price:float",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "a,b\n1,2\n")
	bad := writeFile(t, dir, "bad.csv", "a,b\n1,2,3\n")

	code, out, _ := runTblcat(t, good, bad, filepath.Join(dir, "missing.csv"))
	if code != exitInvalid {
		t.Fatalf("exit = %d, want %d", code, exitInvalid)
	}
	if !strings.Contains(out, "column count mismatch") {
		t.Errorf("output does not report the bad file:\n%s", out)
	}
	if !strings.Contains(out, "missing.csv") {
		t.Errorf("output does not report the missing file:\n%s", out)
	}
}

func TestRun_DirectoryAndRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.csv", "k,v\nx,1\ny,2\nz,3\n")
	writeFile(t, dir, "notes.md", "not a table")

	code, out, _ := runTblcat(t, "-rows", "2", dir)
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if strings.Contains(out, "notes.md") {
		t.Error("non-text file was parsed")
	}
	if !strings.Contains(out, "== "+filepath.Join(dir, "one.csv")) {
		t.Errorf("missing row dump header:\n%s", out)
	}
	if !strings.Contains(out, "y") || strings.Contains(out, "z  ") {
		t.Errorf("row dump should hold the first two rows only:\n%s", out)
	}
}

func TestRun_Export(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	src := writeFile(t, dir, "scores.tsv", "id\tscore\n1\t2.5\n")

	code, _, errOut := runTblcat(t, "-export", "csv", "-out", outDir, src)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "scores.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "id,score\n1,2.5\n" {
		t.Errorf("export = %q", got)
	}
}

func TestRun_ExportRefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "data.csv", "a,b\n1,2\n")

	code, _, _ := runTblcat(t, "-export", "csv", "-out", dir, src)
	if code != exitFatal {
		t.Fatalf("exit = %d, want %d", code, exitFatal)
	}
	got, _ := os.ReadFile(src)
	if string(got) != "a,b\n1,2\n" {
		t.Errorf("input was modified: %q", got)
	}
}

func TestRun_ExportRejectsSharedDestination(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	a := writeFile(t, mkdir(t, root, "a"), "x.csv", "k,v\na,1\n")
	b := writeFile(t, mkdir(t, root, "b"), "x.csv", "k,v\nb,2\n")

	code, _, errOut := runTblcat(t, "-export", "csv", "-out", outDir, a, b)
	if code != exitFatal {
		t.Fatalf("exit = %d, want %d", code, exitFatal)
	}
	if !strings.Contains(errOut, errSameExportDst.Error()) {
		t.Errorf("stderr = %q", errOut)
	}
	if _, err := os.Stat(filepath.Join(outDir, "x.csv")); !os.IsNotExist(err) {
		t.Errorf("export written despite collision: %v", err)
	}
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	p := filepath.Join(parent, name)
	if err := os.Mkdir(p, 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun_Usage(t *testing.T) {
	tests := [][]string{
		nil,
		{"-export", "xml", "a.csv"},
		{"-nope"},
	}
	for _, args := range tests {
		if code, _, _ := runTblcat(t, args...); code != exitFatal {
			t.Errorf("run(%q) = %d, want %d", args, code, exitFatal)
		}
	}
}
