// Command docgen renders quotations, invoices and delivery notes from JSON
// files without the HTTP server or a database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/bootstrap"
	"github.com/sangkips/docgen-api/internal/config"
	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/pkg/logger"
	"github.com/sangkips/docgen-api/pkg/utils"
)

// generator is the part of service.DocumentGenerator the CLI drives
type generator interface {
	PDF(ctx context.Context, in document.Input) (*service.Rendered, error)
	Workbook(ctx context.Context, in document.Input) ([]byte, error)
}

type generatorFactory func(c *cli.Context) (generator, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(newGenerator).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "docgen:", err)
		os.Exit(1)
	}
}

// newGenerator builds the Chrome-backed generator from the same
// environment the API server reads
func newGenerator(c *cli.Context) (generator, error) {
	cfg := config.Load()

	level := "error"
	if c.Bool("verbose") {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, OutputPath: "stderr", Format: "console"})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	stack, err := bootstrap.NewStack(cfg, log)
	if err != nil {
		return nil, err
	}
	return stack.Generator, nil
}

func newApp(factory generatorFactory) *cli.App {
	return &cli.App{
		Name:  "docgen",
		Usage: "render business documents to content-sized PDFs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log rendering steps to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render one document",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					variantFlag(),
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "document JSON file", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "PDF path, defaults to a name built from the document number"},
					xlsxFlag(),
				},
				Action: func(c *cli.Context) error {
					variant, err := enum.ParseDocumentVariant(c.String("variant"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					gen, err := factory(c)
					if err != nil {
						return err
					}
					r := &runner{gen: gen, out: c.App.Writer}
					written, err := r.render(c.Context, variant, c.String("in"), c.String("out"), "", c.Bool("xlsx"))
					if err != nil {
						return err
					}
					for _, path := range written {
						fmt.Fprintln(c.App.Writer, path)
					}
					return nil
				},
			},
			{
				Name:      "batch",
				Usage:     "render every given document into a directory",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					variantFlag(),
					&cli.StringFlag{Name: "out-dir", Aliases: []string{"d"}, Usage: "output directory", Value: "."},
					xlsxFlag(),
				},
				Action: func(c *cli.Context) error {
					variant, err := enum.ParseDocumentVariant(c.String("variant"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					files := c.Args().Slice()
					if len(files) == 0 {
						return cli.Exit("batch needs at least one input file", 2)
					}
					gen, err := factory(c)
					if err != nil {
						return err
					}
					r := &runner{gen: gen, out: c.App.Writer, progress: c.App.ErrWriter}
					failed := r.batch(c.Context, variant, c.String("out-dir"), files, c.Bool("xlsx"))
					if failed > 0 {
						return cli.Exit(fmt.Sprintf("%d of %d documents failed", failed, len(files)), 1)
					}
					return nil
				},
			},
		},
	}
}

func variantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "variant",
		Aliases:  []string{"t"},
		Usage:    "document type: quotation, invoice or delivery",
		Required: true,
	}
}

func xlsxFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "xlsx",
		Usage: "also write a spreadsheet next to each PDF",
	}
}

type runner struct {
	gen      generator
	out      io.Writer
	progress io.Writer
}

// render writes one document and returns the paths it created. When outPath
// is empty the file is named after the document and placed in outDir.
func (r *runner) render(ctx context.Context, variant enum.DocumentVariant, inPath, outPath, outDir string, xlsx bool) ([]string, error) {
	in, err := loadInput(inPath, variant)
	if err != nil {
		return nil, err
	}

	rendered, err := r.gen.PDF(ctx, in)
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		outPath = filepath.Join(outDir, utils.DocumentFilename(fileKind(variant), in.Header.DocumentNumber, ".pdf"))
	}
	if err := writeFile(outPath, rendered.PDF); err != nil {
		return nil, err
	}
	written := []string{outPath}

	if xlsx {
		content, err := r.gen.Workbook(ctx, in)
		if err != nil {
			return written, err
		}
		xlsxPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".xlsx"
		if err := writeFile(xlsxPath, content); err != nil {
			return written, err
		}
		written = append(written, xlsxPath)
	}
	return written, nil
}

// batch renders files one at a time and reports how many failed.
// Each document gets its own browser, so runs are sequential.
func (r *runner) batch(ctx context.Context, variant enum.DocumentVariant, outDir string, files []string, xlsx bool) int {
	progress := r.progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Rendering "+fileKind(variant)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	failed := 0
	for i, file := range files {
		if ctx.Err() != nil {
			failed += len(files) - i
			break
		}
		written, err := r.render(ctx, variant, file, "", outDir, xlsx)
		if err != nil {
			failed++
			fmt.Fprintf(r.out, "FAIL %s: %v\n", file, err)
		} else {
			fmt.Fprintf(r.out, "OK   %s -> %s\n", file, strings.Join(written, ", "))
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(progress)

	return failed
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
