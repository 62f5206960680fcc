package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  hugo         Generate images and inject meta tags into a built Hugo site")
	fmt.Fprintln(w, "  frontmatter  Generate images and write head entries into page front matter")
	fmt.Fprintln(w, "  render       Render one title to a PNG")
	fmt.Fprintln(w, "  init         Write a built-in template to start from")
	fmt.Fprintln(w, "  doctor       Check renderers and system requirements")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ogimage help <command>' for details on a specific command.")
}

// printImageFlags prints the flags shared by the site commands.
func printImageFlags(w io.Writer) {
	fmt.Fprintln(w, "Image:")
	fmt.Fprintln(w, "  -d, --domain <url>        Base URL for image URLs (required)")
	fmt.Fprintln(w, "      --out-dir <dir>       Image directory under the build output (default: og)")
	fmt.Fprintln(w, "  -t, --template <s>        SVG template path (relative to the site) or built-in name")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with templates/<name>.svg overrides")
	fmt.Fprintln(w, "      --max-title <n>       Characters per title line (default: 30)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -r, --renderer <s>        Rasterizer: canvas (default), chrome")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel image jobs (0 = auto)")
	fmt.Fprintln(w, "      --timeout <d>         Chrome page timeout (default: 30s)")
	fmt.Fprintln(w)
}

// printCommonFlags prints the config and output control flags.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Config and Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-page progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  OGIMAGE_CONFIG, OGIMAGE_DOMAIN, OGIMAGE_OUT_DIR, OGIMAGE_TEMPLATE,")
	fmt.Fprintln(w, "  OGIMAGE_MAX_TITLE, OGIMAGE_RENDERER, OGIMAGE_WORKERS, OGIMAGE_TIMEOUT")
	fmt.Fprintln(w, "  Flags override environment, which overrides the config file.")
}

// printHugoUsage prints usage for the hugo command.
func printHugoUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage hugo [site-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate an image for every titled page of a Hugo site and inject the")
	fmt.Fprintln(w, "og:image and twitter:image tags into its built HTML. Run hugo first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  site-dir    Hugo project root (default: current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --content-dir <dir>   Content directory (default: <site>/content)")
	fmt.Fprintln(w, "      --publish-dir <dir>   Built site directory (default: <site>/public)")
	fmt.Fprintln(w, "      --watch               Rebuild when content, HTML or the template changes")
	fmt.Fprintln(w)
	printImageFlags(w)
	printCommonFlags(w)
}

// printFrontmatterUsage prints usage for the frontmatter command.
func printFrontmatterUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage frontmatter <src> --out <dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate an image for every titled page under src and add the meta tags")
	fmt.Fprintln(w, "to the page's front matter 'head' list, for generators that render it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  src         Markdown source directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --out <dir>           Build output directory that receives the images")
	fmt.Fprintln(w, "      --dest <dir>          Write pages here instead of rewriting src")
	fmt.Fprintln(w, "      --watch               Rebuild when sources or the template change")
	fmt.Fprintln(w)
	printImageFlags(w)
	printCommonFlags(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage render <title> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one title with a template, for checking how titles wrap.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <file>       PNG file to write (default: og.png)")
	fmt.Fprintln(w, "  -t, --template <s>        SVG template path or built-in name (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with templates/<name>.svg overrides")
	fmt.Fprintln(w, "      --max-title <n>       Characters per title line (default: 30)")
	fmt.Fprintln(w, "  -r, --renderer <s>        Rasterizer: canvas (default), chrome")
	fmt.Fprintln(w, "      --timeout <d>         Chrome page timeout (default: 30s)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage init [path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a built-in SVG template to path (default: assets/og-template.svg).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --template <name>     Built-in template to write (default: default)")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the canvas renderer, built-in templates, Chrome and the temp directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "hugo":
		printHugoUsage(env.Stdout)
	case "frontmatter":
		printFrontmatterUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ogimage version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ogimage help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
