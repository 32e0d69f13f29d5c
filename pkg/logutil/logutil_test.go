package logutil

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"src.gdsl.dev/pkg/must"
	"src.gdsl.dev/pkg/testutil"
)

func TestGetLogger_DiscardsByDefault(t *testing.T) {
	testutil.Set(t, &out, io.Discard)
	testutil.Set(t, &loggers, nil)

	logger := GetLogger("[test] ")
	logger.Println("dropped")

	var buf bytes.Buffer
	SetOutput(&buf)
	if buf.Len() != 0 {
		t.Errorf("got %q before logging, want nothing", buf.String())
	}
	logger.Println("kept")
	if got := buf.String(); got != "[test] kept\n" {
		t.Errorf("got %q, want the prefixed message only", got)
	}
}

func TestSetOutputFile(t *testing.T) {
	testutil.Set(t, &out, io.Discard)
	testutil.Set(t, &loggers, nil)
	dir := testutil.TempDir(t)
	fname := filepath.Join(dir, "log")

	logger := GetLogger("[file] ")
	must.OK(SetOutputFile(fname))
	logger.Println("to file")
	must.OK(SetOutputFile(""))
	logger.Println("discarded")

	got := must.ReadFileString(fname)
	if !strings.Contains(got, "[file] to file\n") || strings.Contains(got, "discarded") {
		t.Errorf("log file contains %q", got)
	}
}

func TestSetOutputFile_Error(t *testing.T) {
	testutil.Set(t, &out, io.Discard)
	dir := testutil.TempDir(t)
	if err := SetOutputFile(filepath.Join(dir, "no", "such", "dir")); err == nil {
		t.Errorf("got nil error for a file in a missing directory")
	}
}
