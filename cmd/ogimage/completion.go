package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --template
	Short    string   // -t (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	TakesDirs bool     // accepts a directory argument
	Args      []string // fixed argument values, e.g. shells
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"renderer": {Values: []string{"canvas", "chrome"}},

	// File flags with glob patterns
	"config":   {FileGlob: "*.yaml,*.yml"},
	"template": {FileGlob: "*.svg"},
	"output":   {FileGlob: "*.png"},

	// Directory flags
	"asset-path":  {IsDir: true},
	"content-dir": {IsDir: true},
	"publish-dir": {IsDir: true},
	"out":         {IsDir: true},
	"dest":        {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:      "hugo",
			Desc:      "Generate images and inject meta tags into a built Hugo site",
			Flags:     extractFlagsFromFlagSet(newHugoFlagSet(&hugoFlags{})),
			TakesDirs: true,
		},
		{
			Name:      "frontmatter",
			Desc:      "Generate images and write head entries into page front matter",
			Flags:     extractFlagsFromFlagSet(newFrontmatterFlagSet(&frontmatterFlags{})),
			TakesDirs: true,
		},
		{
			Name:  "render",
			Desc:  "Render one title to a PNG",
			Flags: extractFlagsFromFlagSet(newRenderFlagSet(&renderFlags{})),
		},
		{
			Name:  "init",
			Desc:  "Write a built-in template to start from",
			Flags: extractFlagsFromFlagSet(newInitFlagSet(&initFlags{})),
		},
		{
			Name:  "doctor",
			Desc:  "Check renderers and system requirements",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "output JSON"}},
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var buf bytes.Buffer
	commands := getCommands()

	switch shell {
	case ShellBash:
		generateBash(&buf, commands)
	case ShellZsh:
		generateZsh(&buf, commands)
	case ShellFish:
		generateFish(&buf, commands)
	case ShellPowerShell:
		generatePowerShell(&buf, commands)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func commandNames(commands []commandDef) string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	return strings.Join(names, " ")
}

func flagWords(c commandDef) string {
	words := make([]string, 0, len(c.Flags)*2)
	for _, f := range c.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// globs splits "*.yaml,*.yml" into its patterns.
func globs(pattern string) []string {
	return strings.Split(pattern, ",")
}

func generateBash(w *bytes.Buffer, commands []commandDef) {
	fmt.Fprintln(w, "# bash completion for ogimage")
	fmt.Fprintln(w, "_ogimage_completions() {")
	fmt.Fprintln(w, `    local cur prev cmd`)
	fmt.Fprintln(w, `    cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(w, `    prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintln(w, `    cmd="${COMP_WORDS[1]}"`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    if [[ ${COMP_CWORD} -eq 1 ]]; then`)
	fmt.Fprintf(w, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", commandNames(commands))
	fmt.Fprintln(w, `        return`)
	fmt.Fprintln(w, `    fi`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "${prev}" in`)
	for _, c := range commands {
		for _, f := range c.Flags {
			pat := "--" + f.Long
			if f.Short != "" {
				pat += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\")); return ;;\n", pat, strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -f -- \"${cur}\")); return ;;\n", pat)
			case flagDir:
				fmt.Fprintf(w, "        %s) COMPREPLY=($(compgen -d -- \"${cur}\")); return ;;\n", pat)
			}
		}
	}
	fmt.Fprintln(w, `    esac`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "${cmd}" in`)
	for _, c := range commands {
		fmt.Fprintf(w, "        %s)\n", c.Name)
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(w, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			fmt.Fprintf(w, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", commandNames(commands))
		case c.TakesDirs:
			fmt.Fprintf(w, "            if [[ \"${cur}\" == -* ]]; then COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\")); else COMPREPLY=($(compgen -d -- \"${cur}\")); fi\n", flagWords(c))
		default:
			fmt.Fprintf(w, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", flagWords(c))
		}
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, `    esac`)
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -F _ogimage_completions ogimage")
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		var parts []string
		for _, g := range globs(f.FileGlob) {
			parts = append(parts, `-g "`+g+`"`)
		}
		return ":" + f.Long + ":_files " + strings.Join(parts, " ")
	case flagDir:
		return ":" + f.Long + ":_directories"
	default:
		return ":" + f.Long + ":"
	}
}

func generateZsh(w *bytes.Buffer, commands []commandDef) {
	fmt.Fprintln(w, "#compdef ogimage")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_ogimage() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range commands {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    case \"${words[2]}\" in")
	for _, c := range commands {
		fmt.Fprintf(w, "        %s)\n", c.Name)
		fmt.Fprintln(w, "            _arguments -s \\")
		for _, f := range c.Flags {
			spec := "'--" + f.Long + "[" + zshEscape(f.Desc) + "]" + zshAction(f) + "'"
			if f.Short != "" {
				spec = "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'[" + zshEscape(f.Desc) + "]" + zshAction(f) + "'"
			}
			fmt.Fprintf(w, "                %s \\\n", spec)
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(w, "                '1:shell:(%s)'\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			fmt.Fprintln(w, "                '1:command:_describe command commands'")
		case c.TakesDirs:
			fmt.Fprintln(w, "                '1:directory:_directories'")
		default:
			fmt.Fprintln(w, "                '*:argument:'")
		}
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "compdef _ogimage ogimage")
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generateFish(w *bytes.Buffer, commands []commandDef) {
	fmt.Fprintln(w, "# fish completion for ogimage")
	fmt.Fprintln(w, "function __fish_ogimage_needs_command")
	fmt.Fprintln(w, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(w, "    test (count $cmd) -eq 1")
	fmt.Fprintln(w, "end")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "function __fish_ogimage_using_command")
	fmt.Fprintln(w, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(w, "    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]")
	fmt.Fprintln(w, "end")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "complete -c ogimage -f")
	for _, c := range commands {
		fmt.Fprintf(w, "complete -c ogimage -n __fish_ogimage_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range commands {
		cond := "'__fish_ogimage_using_command " + c.Name + "'"
		if len(c.Args) > 0 {
			fmt.Fprintf(w, "complete -c ogimage -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.Name == "help" {
			fmt.Fprintf(w, "complete -c ogimage -n %s -a '%s'\n", cond, commandNames(commands))
		}
		if c.TakesDirs {
			fmt.Fprintf(w, "complete -c ogimage -n %s -a '(__fish_complete_directories)'\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c ogimage -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			line += " -d '" + fishEscape(f.Desc) + "'"
			fmt.Fprintln(w, line)
		}
	}
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func generatePowerShell(w *bytes.Buffer, commands []commandDef) {
	fmt.Fprintln(w, "# PowerShell completion for ogimage")
	fmt.Fprintln(w, "Register-ArgumentCompleter -Native -CommandName ogimage -ScriptBlock {")
	fmt.Fprintln(w, "    param($wordToComplete, $commandAst, $cursorPosition)")
	fmt.Fprintln(w, "    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }")
	fmt.Fprintln(w, "    $commands = @{")
	for _, c := range commands {
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, psQuote("--"+f.Long))
		}
		for _, a := range c.Args {
			opts = append(opts, psQuote(a))
		}
		fmt.Fprintf(w, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(opts, ", "))
	}
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete)) {")
	fmt.Fprintln(w, "        $candidates = $commands.Keys")
	fmt.Fprintln(w, "    } else {")
	fmt.Fprintln(w, "        $candidates = $commands[$words[1]]")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {")
	fmt.Fprintln(w, "        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "}")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(ogimage completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(ogimage completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    ogimage completion fish > ~/.config/fish/completions/ogimage.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    ogimage completion powershell | Out-String | Invoke-Expression")
}
