package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calder-build/calder/cmd/calder/commands"
	"github.com/calder-build/calder/internal/build"
)

func TestVersion(t *testing.T) {
	cli := commands.New()

	out := &bytes.Buffer{}
	cli.Root().SetOut(out)
	cli.SetArgs([]string{"version"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != build.Version {
		t.Errorf("Expected version %q, got %q", build.Version, got)
	}
}

func TestRoot_Help(t *testing.T) {
	cli := commands.New()

	cli.Root().SetOut(&bytes.Buffer{})
	cli.SetArgs([]string{"--help"})

	// Cobra handles help itself, no error expected.
	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error for help, got: %v", err)
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "calder.yaml"), []byte("build: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := commands.New()
	cli.Root().SetOut(&bytes.Buffer{})
	cli.SetArgs([]string{"build", dir})

	if err := cli.Execute(context.Background()); err == nil {
		t.Error("Expected an error for a malformed project file")
	}
}

func TestBuild_MissingBundlerBinary(t *testing.T) {
	t.Setenv("CALDER_BUNDLER", filepath.Join(t.TempDir(), "no-such-binary"))

	cli := commands.New()
	cli.Root().SetOut(&bytes.Buffer{})
	cli.SetArgs([]string{"build", t.TempDir()})

	if err := cli.Execute(context.Background()); err == nil {
		t.Error("Expected an error when the bundler binary is missing")
	}
}

func TestBuild_TooManyArgs(t *testing.T) {
	cli := commands.New()
	cli.Root().SetOut(&bytes.Buffer{})
	cli.Root().SetErr(&bytes.Buffer{})
	cli.SetArgs([]string{"build", "a", "b"})

	if err := cli.Execute(context.Background()); err == nil {
		t.Error("Expected an argument count error")
	}
}
