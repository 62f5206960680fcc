package main

// Notes:
// - Tests go through runDoctorCmd() and inspect its JSON or text output.
// - Tests that set environment variables use t.Setenv and cannot run in parallel.
// - Chrome presence depends on the machine; tests that need a known state point
//   ROD_BROWSER_BIN at a missing file.
// - The canvas self-test renders text, so its outcome depends on installed fonts
//   and is not asserted.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

func runDoctorJSON(t *testing.T) (*doctorResult, int) {
	t.Helper()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, stdout.String())
	}
	return &result, code
}

// clearDoctorEnv unsets the variables doctor reads, for the current test.
func clearDoctorEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"OGIMAGE_CONTAINER", "KUBERNETES_SERVICE_HOST", "container",
		"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI",
		"OGIMAGE_RENDERER", "ROD_NO_SANDBOX",
	} {
		t.Setenv(v, "")
	}
}

func hasMessage(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON output structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	result, code := runDoctorJSON(t)

	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("status = %q, want ready/warnings/errors", result.Status)
	}
	if result.Status == "errors" && code != ExitGeneral {
		t.Errorf("exit code = %d for errors status, want %d", code, ExitGeneral)
	}
	if result.Status != "errors" && code != ExitSuccess {
		t.Errorf("exit code = %d for %s status, want %d", code, result.Status, ExitSuccess)
	}

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if len(result.Templates.BuiltIn) == 0 {
		t.Error("built-in templates should be listed")
	}
	if !result.System.TempWritable {
		t.Error("temp directory should be writable in normal conditions")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Text report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	runDoctorCmd(nil, env)
	output := stdout.String()

	for _, section := range []string{"ogimage doctor", "Renderer", "Chrome/Chromium", "Environment", "System", "Status:"} {
		if !strings.Contains(output, section) {
			t.Errorf("output should contain section %q", section)
		}
	}
	if platform := runtime.GOOS + "/" + runtime.GOARCH; !strings.Contains(output, platform) {
		t.Errorf("output should contain platform %q", platform)
	}

	statusLines := []string{
		"Status: Ready to generate",
		"Status: Ready with warnings",
		"Status: Not ready (see errors above)",
	}
	if !hasMessage(statusLines, strings.TrimSpace(output[strings.LastIndex(output, "Status:"):])) {
		t.Errorf("unexpected status line in:\n%s", output)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Renderer - Chrome is only required for the chrome renderer
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Renderer(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "chrome")

	t.Run("canvas tolerates missing chrome", func(t *testing.T) {
		clearDoctorEnv(t)
		t.Setenv("ROD_BROWSER_BIN", missing)

		result, _ := runDoctorJSON(t)
		if result.Renderer != "canvas" {
			t.Errorf("renderer = %q, want canvas", result.Renderer)
		}
		if result.Chrome.Found {
			t.Error("chrome should not be found")
		}
		if !hasMessage(result.Warnings, "only needed for --renderer chrome") {
			t.Errorf("warnings = %v, want a chrome note", result.Warnings)
		}
		if hasMessage(result.Errors, "Chrome") {
			t.Errorf("missing chrome should not be an error, got %v", result.Errors)
		}
	})

	t.Run("chrome requires chrome", func(t *testing.T) {
		clearDoctorEnv(t)
		t.Setenv("ROD_BROWSER_BIN", missing)
		t.Setenv("OGIMAGE_RENDERER", "chrome")

		result, code := runDoctorJSON(t)
		if result.Status != "errors" || code != ExitGeneral {
			t.Errorf("status = %q, code = %d, want errors, %d", result.Status, code, ExitGeneral)
		}
		if !hasMessage(result.Errors, "Chrome not found") {
			t.Errorf("errors = %v, want a chrome error", result.Errors)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_ContainerDetection - Container signals
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ContainerDetection(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envVal   string
		wantHint string
	}{
		{name: "explicit override", envVar: "OGIMAGE_CONTAINER", envVal: "1", wantHint: "OGIMAGE_CONTAINER=1"},
		{name: "kubernetes", envVar: "KUBERNETES_SERVICE_HOST", envVal: "10.0.0.1", wantHint: "KUBERNETES_SERVICE_HOST"},
		{name: "podman", envVar: "container", envVal: "podman", wantHint: "container=podman"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearDoctorEnv(t)
			t.Setenv(tt.envVar, tt.envVal)

			result, _ := runDoctorJSON(t)
			if !result.Env.Container {
				t.Error("container should be detected")
			}
			// /.dockerenv outranks the environment signals below the override.
			if result.Env.ContainerHint != tt.wantHint && result.Env.ContainerHint != "/.dockerenv" {
				t.Errorf("container hint = %q, want %q", result.Env.ContainerHint, tt.wantHint)
			}
		})
	}
}

func TestRunDoctorCmd_ContainerPriority(t *testing.T) {
	clearDoctorEnv(t)
	t.Setenv("OGIMAGE_CONTAINER", "1")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")

	result, _ := runDoctorJSON(t)
	if result.Env.ContainerHint != "OGIMAGE_CONTAINER=1" {
		t.Errorf("OGIMAGE_CONTAINER should win, got hint %q", result.Env.ContainerHint)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_CIDetection - CI signals
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_CIDetection(t *testing.T) {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		t.Run(v, func(t *testing.T) {
			clearDoctorEnv(t)
			t.Setenv(v, "true")

			result, _ := runDoctorJSON(t)
			if !result.Env.CI {
				t.Errorf("CI should be detected from %s", v)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_SandboxWarning - Sandbox advice needs Chrome
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_SandboxWarning(t *testing.T) {
	t.Run("no warning without chrome", func(t *testing.T) {
		clearDoctorEnv(t)
		t.Setenv("CI", "true")
		t.Setenv("ROD_BROWSER_BIN", filepath.Join(t.TempDir(), "chrome"))

		result, _ := runDoctorJSON(t)
		if hasMessage(result.Warnings, "ROD_NO_SANDBOX not set") {
			t.Error("sandbox warning should need a browser")
		}
	})

	t.Run("no warning when disabled", func(t *testing.T) {
		clearDoctorEnv(t)
		t.Setenv("CI", "true")
		t.Setenv("ROD_NO_SANDBOX", "1")

		result, _ := runDoctorJSON(t)
		if hasMessage(result.Warnings, "ROD_NO_SANDBOX not set") {
			t.Error("should not warn about the sandbox when ROD_NO_SANDBOX=1")
		}
		if result.Env.NoSandbox != "1" {
			t.Errorf("NoSandbox = %q, want 1", result.Env.NoSandbox)
		}
	})

	t.Run("warning with chrome in CI", func(t *testing.T) {
		clearDoctorEnv(t)
		t.Setenv("CI", "true")

		result, _ := runDoctorJSON(t)
		if !result.Chrome.Found {
			t.Skip("Chrome not installed")
		}
		if !hasMessage(result.Warnings, "ROD_NO_SANDBOX") {
			t.Errorf("warnings = %v, want sandbox advice", result.Warnings)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput_Environment - Detected environment is shown
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput_Environment(t *testing.T) {
	clearDoctorEnv(t)
	t.Setenv("OGIMAGE_CONTAINER", "1")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("ROD_BROWSER_BIN", filepath.Join(t.TempDir(), "chrome"))

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	runDoctorCmd(nil, env)
	output := stdout.String()

	for _, want := range []string{"Container: detected (OGIMAGE_CONTAINER=1)", "CI: detected", "[WARN]", "[--] Not found"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q\n%s", want, output)
		}
	}
}
