// Command spellcheck checks stdin (or a file) and prints the findings.
//
// Usage:
//
//	echo "this is a tset" | spellcheck -dict en.txt
//	spellcheck -dict en.txt -f text.txt -correct -auto
//	spellcheck -dict en.txt -items items.json -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/rs/zerolog"

	"spellcheck/internal/app"
	"spellcheck/internal/corrector"
)

func main() {
	settings := app.FromEnv()
	settings.RedisAddr = ""
	file := flag.String("f", "", "file to read instead of stdin")
	items := flag.String("items", "", "JSON array of spelling items to evaluate")
	timeout := flag.Duration("t", 30*time.Second, "overall timeout")
	correct := flag.Bool("correct", false, "print the corrected text")
	auto := flag.Bool("auto", false, "apply the top candidate regardless of margin")
	asJSON := flag.Bool("json", false, "print JSON instead of a table")
	verbose := flag.Bool("v", false, "log pipeline progress")
	settings.RegisterFlags(flag.CommandLine)
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	checker, err := app.Build(ctx, settings, logger)
	must(err)
	defer checker.Close()

	if *items != "" {
		data, err := os.ReadFile(*items)
		must(err)
		var batch []corrector.SpellingItem
		must(json.Unmarshal(data, &batch))
		results, err := checker.CheckSpellingItems(ctx, batch)
		must(err)
		if *asJSON {
			printJSON(results)
			return
		}
		printItems(results)
		return
	}

	var r io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		must(err)
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	must(err)

	if *correct {
		c, err := checker.Correct(ctx, string(data), *auto)
		must(err)
		if *asJSON {
			printJSON(c)
			return
		}
		fmt.Print(c.Corrected)
		return
	}

	res, err := checker.CheckText(ctx, string(data))
	must(err)
	if *asJSON {
		printJSON(res)
		return
	}
	printFindings(res)
}

func printFindings(res *corrector.Result) {
	t := tabby.New()
	t.AddHeader("Word", "Offset", "Kind", "Detector", "Suggestions")
	for _, f := range res.Errors {
		t.AddLine(f.Word, f.Offset, f.Kind, f.Detector, strings.Join(f.Suggestions, ", "))
	}
	t.Print()
	for name, s := range res.Sources {
		if s.Status != corrector.CodeOK {
			fmt.Fprintf(os.Stderr, "%s: %s (%d/%d failed) %s\n", name, s.Status, s.Failures, s.Calls, s.Error)
		}
	}
}

func printItems(results []corrector.ItemResult) {
	t := tabby.New()
	t.AddHeader("Corpus", "Document", "Errors", "Detected", "Gold found", "Code")
	var detected, found int
	for _, r := range results {
		n := 0
		if r.Result != nil {
			n = r.Result.ErrorCount
		}
		t.AddLine(r.CorpusID, r.DocumentID, n, r.Detected, r.GoldFound, r.Code)
		if r.Detected {
			detected++
		}
		if r.GoldFound {
			found++
		}
	}
	t.Print()
	fmt.Printf("\n%d items, %d detected, %d gold found\n", len(results), detected, found)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	must(enc.Encode(v))
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
