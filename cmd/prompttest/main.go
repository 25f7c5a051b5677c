// Command prompttest runs one rewrite against the configured provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"resume-tailor/internal/bootstrap"
	"resume-tailor/internal/rewriter"
	"resume-tailor/internal/shared/config"
)

func main() {
	resumePath := flag.String("resume", "", "Path to a plain-text resume")
	jdPath := flag.String("jd", "", "Path to a plain-text job description")
	notes := flag.String("notes", "", "Extra instructions for the rewrite")
	provider := flag.String("provider", "", "Override LLM_PROVIDER (openai or gemini)")
	model := flag.String("model", "", "Override LLM_MODEL")
	showPrompt := flag.Bool("show-prompt", false, "Print the prompt instead of calling the provider")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" || strings.TrimSpace(*jdPath) == "" {
		exitErr("both -resume and -jd are required")
	}

	in := rewriter.Input{
		ResumeText:     readFile(*resumePath),
		Notes:          *notes,
		JobDescription: readFile(*jdPath),
	}

	if *showPrompt {
		p := rewriter.BuildPrompt(in)
		fmt.Printf("--- system ---\n%s\n--- user ---\n%s\n", p.System, p.User)
		return
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		exitErr(err.Error())
	}
	if *provider != "" {
		cfg.LLM.Provider = *provider
	}
	if *model != "" {
		cfg.LLM.Model = *model
	}

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}
	defer app.Close()

	out, err := app.Rewriter.Rewrite(ctx, in)
	if err != nil {
		exitErr(fmt.Sprintf("rewrite: %v", err))
	}
	fmt.Println(out)
}

func readFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		exitErr(fmt.Sprintf("read %s: %v", path, err))
	}
	return strings.TrimSpace(string(b))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
