package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"vulnsight/internal/analysis"
	"vulnsight/internal/config"
	"vulnsight/internal/errs"
	"vulnsight/internal/export"
	"vulnsight/internal/llm"
	"vulnsight/internal/render"
	"vulnsight/internal/report"
	"vulnsight/internal/scan"
)

func runScan(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	var (
		verbose  = fs.Bool("verbose", false, "show all findings and recommendations")
		output   = fs.String("output", "", "write the JSON (or HTML) artifact to this path")
		format   = fs.String("format", "terminal", "output format: terminal, json, html")
		maxFiles = fs.Int("max-files", scan.DefaultMaxFiles, "maximum files sent to the model")
		upload   = fs.Bool("upload", false, "upload the JSON artifact to object storage (VULNSIGHT_S3_* env)")
		file     = fs.String("file", "", "analyze a single file instead of a directory")
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vulnsight scan [directory] [options]

Scan a codebase with the configured model and report vulnerabilities.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  vulnsight scan .
  vulnsight scan ./api --format json --output report.json
  vulnsight scan --file server.js --verbose
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	store, err := config.NewFileStore("")
	if err != nil {
		fail(errs.Wrap(errs.KindConfiguration, "cannot locate configuration", err))
	}
	cfg, err := config.Resolve(store)
	if err != nil {
		fail(err)
	}

	client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		fail(errs.Wrap(errs.KindConfiguration, "cannot initialize model client", err))
	}
	analyzer := &analysis.Analyzer{
		LLM:      client,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		MaxFiles: *maxFiles,
	}

	var rep *report.Report
	if *file != "" {
		rep, err = scanSingleFile(ctx, analyzer, *file)
	} else {
		rep, err = analyzer.Scan(ctx, dir)
	}
	if err != nil {
		fail(err)
	}

	if err := emit(rep, *format, *output, *verbose); err != nil {
		fail(err)
	}
	if *upload {
		if err := uploadArtifact(ctx, rep); err != nil {
			fail(err)
		}
	}
}

// scanSingleFile is the legacy one-file analysis path: the file's directory
// becomes the confinement root and only that file is sent.
func scanSingleFile(ctx context.Context, analyzer *analysis.Analyzer, path string) (*report.Report, error) {
	scanner, err := scan.NewScanner(filepath.Dir(path), scan.Options{})
	if err != nil {
		return nil, err
	}
	vulns, err := analyzer.AnalyzeFile(ctx, scanner, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	insights, err := analyzer.GenerateInsights(ctx, vulns)
	if err != nil {
		return nil, err
	}
	return report.Assemble(path, vulns, insights), nil
}

func emit(rep *report.Report, format, output string, verbose bool) error {
	switch strings.ToLower(format) {
	case "terminal":
		render.Terminal(os.Stdout, rep, verbose)
		if output != "" {
			if err := rep.WriteFile(output); err != nil {
				return errs.Wrap(errs.KindUnknown, "cannot write report artifact", err)
			}
			log.Printf("report written to %s", output)
		}
	case "json":
		b, err := rep.MarshalJSONBytes()
		if err != nil {
			return errs.Wrap(errs.KindUnknown, "cannot encode report", err)
		}
		if output != "" {
			return writeOrWrap(output, append(b, '\n'))
		}
		fmt.Println(string(b))
	case "html":
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return errs.Wrap(errs.KindUnknown, "cannot write report artifact", err)
			}
			defer f.Close()
			return render.HTML(f, rep)
		}
		return render.HTML(os.Stdout, rep)
	default:
		return errs.Newf(errs.KindValidation, "unknown format %q (want terminal, json, or html)", format)
	}
	return nil
}

func writeOrWrap(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errs.Wrap(errs.KindUnknown, "cannot write report artifact", err)
	}
	return nil
}

func uploadArtifact(ctx context.Context, rep *report.Report) error {
	cfg, ok := export.S3ConfigFromEnv()
	if !ok {
		return errs.New(errs.KindConfiguration, "VULNSIGHT_S3_ENDPOINT is not set")
	}
	uploader, err := export.NewS3Uploader(cfg)
	if err != nil {
		return errs.Wrap(errs.KindConfiguration, "cannot initialize object storage client", err)
	}
	b, err := rep.MarshalJSONBytes()
	if err != nil {
		return errs.Wrap(errs.KindUnknown, "cannot encode report", err)
	}
	if err := uploader.Upload(ctx, rep.ScanID, "report.json", b, "application/json"); err != nil {
		return errs.Wrap(errs.KindUnknown, "report upload failed", err)
	}
	log.Printf("report uploaded as %s/report.json", rep.ScanID)
	return nil
}
