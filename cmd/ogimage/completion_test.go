package main

// Notes:
// - GenerateCompletion: we test that shell scripts are generated with expected
//   content markers. We do not test that the scripts actually work in the
//   target shell (that would require integration tests with actual shells).
// - getCommands: we test the command definitions match the flag sets the
//   commands parse with.
// These are acceptable gaps: we test observable behavior, not runtime shell behavior.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion_SupportedShells - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_ogimage_completions",
				"complete -F _ogimage_completions ogimage",
				"compgen",
				"hugo",
				"--renderer|-r) COMPREPLY=($(compgen -W \"canvas chrome\"",
				"--content-dir",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef ogimage",
				"_ogimage",
				"_arguments",
				"_describe",
				"frontmatter",
				`_files -g "*.svg"`,
				"_directories",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c ogimage",
				"__fish_ogimage_needs_command",
				"__fish_ogimage_using_command",
				"render",
				"-l output",
				"-l renderer -s r -x -a 'canvas chrome'",
			},
		},
		{
			name:  "powershell",
			shell: ShellPowerShell,
			wantContains: []string{
				"Register-ArgumentCompleter",
				"-CommandName ogimage",
				"CompletionResult",
				"'init'",
				"'--force'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q) error = %v", tt.shell, err)
			}

			output := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing expected content %q", want)
				}
			}
			for _, cmd := range getCommands() {
				if !strings.Contains(output, cmd.Name) {
					t.Errorf("output missing command %q", cmd.Name)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion_UnsupportedShell - Error handling for unknown shells
// ---------------------------------------------------------------------------

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{"", "unknown", "sh", "tcsh"} {
		t.Run(string(shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := GenerateCompletion(&buf, shell)
			if !errors.Is(err, ErrUnsupportedShell) {
				t.Fatalf("GenerateCompletion(%q) error = %v, want ErrUnsupportedShell", shell, err)
			}
			if !strings.Contains(err.Error(), string(shell)) {
				t.Errorf("error should name the shell %q, got %v", shell, err)
			}
			if buf.Len() != 0 {
				t.Error("nothing should be written on error")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	t.Run("no args prints usage", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
		if err := runCompletion(nil, env); err != nil {
			t.Fatalf("runCompletion() error = %v", err)
		}
		for _, want := range []string{"Usage: ogimage completion", "Supported shells:", "ogimage completion bash"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("usage should contain %q", want)
			}
		}
	})

	t.Run("valid shell", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
		if err := runCompletion([]string{"zsh"}, env); err != nil {
			t.Fatalf("runCompletion(zsh) error = %v", err)
		}
		if !strings.HasPrefix(stdout.String(), "#compdef ogimage") {
			t.Error("zsh script should start with #compdef")
		}
	})

	t.Run("invalid shell", func(t *testing.T) {
		t.Parallel()

		env := &Environment{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
		if err := runCompletion([]string{"ksh"}, env); !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("runCompletion(ksh) error = %v, want ErrUnsupportedShell", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestGetCommands - Command registry
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := make(map[string]commandDef)
	for _, c := range getCommands() {
		byName[c.Name] = c
	}

	for _, name := range []string{"hugo", "frontmatter", "render", "init", "doctor", "completion", "version", "help"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing command %q", name)
		}
		if !isCommand(name) {
			t.Errorf("completion lists %q but runMain does not dispatch it", name)
		}
	}

	findFlag := func(cmd, long string) (flagDef, bool) {
		for _, f := range byName[cmd].Flags {
			if f.Long == long {
				return f, true
			}
		}
		return flagDef{}, false
	}

	tests := []struct {
		cmd      string
		flag     string
		short    string
		wantType flagType
	}{
		{cmd: "hugo", flag: "domain", short: "d", wantType: flagString},
		{cmd: "hugo", flag: "renderer", short: "r", wantType: flagEnum},
		{cmd: "hugo", flag: "workers", short: "w", wantType: flagInt},
		{cmd: "hugo", flag: "watch", wantType: flagBool},
		{cmd: "hugo", flag: "content-dir", wantType: flagDir},
		{cmd: "hugo", flag: "config", short: "c", wantType: flagFile},
		{cmd: "frontmatter", flag: "dest", wantType: flagDir},
		{cmd: "render", flag: "output", short: "o", wantType: flagFile},
		{cmd: "render", flag: "template", short: "t", wantType: flagFile},
		{cmd: "init", flag: "force", short: "f", wantType: flagBool},
	}

	for _, tt := range tests {
		f, ok := findFlag(tt.cmd, tt.flag)
		if !ok {
			t.Errorf("%s: missing flag --%s", tt.cmd, tt.flag)
			continue
		}
		if f.Short != tt.short {
			t.Errorf("%s --%s short = %q, want %q", tt.cmd, tt.flag, f.Short, tt.short)
		}
		if f.Type != tt.wantType {
			t.Errorf("%s --%s type = %d, want %d", tt.cmd, tt.flag, f.Type, tt.wantType)
		}
	}

	if _, ok := findFlag("render", "domain"); ok {
		t.Error("render should not offer --domain")
	}
	if !byName["hugo"].TakesDirs || !byName["frontmatter"].TakesDirs {
		t.Error("site commands should complete directories")
	}
	if got := byName["completion"].Args; len(got) != 4 {
		t.Errorf("completion args = %v, want the four shells", got)
	}
}

func TestShellConstants(t *testing.T) {
	t.Parallel()

	tests := map[Shell]string{
		ShellBash:       "bash",
		ShellZsh:        "zsh",
		ShellFish:       "fish",
		ShellPowerShell: "powershell",
	}
	for shell, want := range tests {
		if string(shell) != want {
			t.Errorf("Shell %q, want %q", shell, want)
		}
	}
}
