// Command tson formats and validates tagged JSON documents.
//
// Usage:
//
//	tson [flags] [file ...]
//
// With no files, input is read from stdin. Each document is parsed with the
// strict grammar and printed back; parse errors render a caret-annotated
// snippet. The -i flag starts an interactive prompt that echoes each entered
// document through the parse/stringify pipeline.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/notRadioOpaque/tson"
)

const (
	appName     = "tson"
	historyFile = ".tson_history"
	prompt      = "tson> "
)

var (
	indentN     = flag.Int("indent", 0, "spaces per nesting level (0 = minified)")
	useTab      = flag.Bool("tab", false, "indent with tabs instead of spaces")
	sortKeys    = flag.Bool("sort", false, "sort object keys at every depth")
	checkOnly   = flag.Bool("check", false, "validate input and report, emit nothing")
	interactive = flag.Bool("i", false, "interactive prompt")
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func opts() tson.StringifyOptions {
	o := tson.StringifyOptions{
		Indent:   tson.Spaces(*indentN),
		SortKeys: *sortKeys,
	}
	if *useTab {
		o.Indent = "\t"
	}
	return o
}

// format parses src strictly and renders it back with the active options.
// Tags stay intact: the round trip is raw tree in, raw tree out.
func format(src string) (string, error) {
	tree, err := tson.ParseRaw(src)
	if err != nil {
		return "", err
	}
	return tson.StringifyOpts(tree, opts())
}

func runFile(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	src := string(data)

	if *checkOnly {
		if _, err := tson.ParseRaw(src); err != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n%v\n", red("FAIL"), name, err)
			return fmt.Errorf("%s: invalid", name)
		}
		fmt.Printf("%s %s\n", green("OK"), name)
		return nil
	}

	out, err := format(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return fmt.Errorf("%s: invalid", name)
	}
	fmt.Println(out)
	return nil
}

func runInteractive() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("%s interactive mode. Ctrl+D or :quit to exit.\n", appName)
	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			return
		}
		line.AppendHistory(input)

		out, err := format(input)
		if err != nil {
			fmt.Println(red(err.Error()))
			continue
		}
		fmt.Println(green(out))
	}
}

func main() {
	flag.Parse()

	if *interactive {
		runInteractive()
		return
	}

	failed := false
	if flag.NArg() == 0 {
		if err := runFile("stdin", os.Stdin); err != nil {
			failed = true
		}
	}
	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			failed = true
			continue
		}
		if err := runFile(name, f); err != nil {
			failed = true
		}
		f.Close()
	}
	if failed {
		os.Exit(1)
	}
}
