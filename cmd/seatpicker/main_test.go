package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	out, err := run(t, "layout", "--seats", "56", "--sold", "7")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "DRIVER") || !strings.Contains(out, "XX") || !strings.Contains(out, "56") {
		t.Fatalf("unexpected layout output:\n%s", out)
	}

	if _, err := run(t, "layout", "--seats", "1"); err == nil {
		t.Fatalf("expected error for capacity below two")
	}
}

func TestAgenciesCommand(t *testing.T) {
	out, err := run(t, "agencies", "--from", "Douala", "--to", "Yaounde")
	if err != nil {
		t.Fatalf("agencies: %v", err)
	}
	if !strings.Contains(out, "Musango Express") {
		t.Fatalf("expected agency1 in output:\n%s", out)
	}
}

func TestUnknownAgency(t *testing.T) {
	if _, err := run(t, "--agency", "nope"); err == nil {
		t.Fatalf("expected unknown agency error")
	}
}
