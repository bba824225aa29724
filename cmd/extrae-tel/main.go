// Command extrae-tel extracts the assigned Dominican phone number from the
// top-right region of a PDF's first page and copies the file next to itself
// named after the number's digits.
//
// The digits are the only thing written to stdout, so the command composes
// in shell pipelines. Exit codes distinguish the failure classes:
//
//	0  number extracted (and copied, unless --no-copy)
//	1  the input is not a readable PDF, or usage error
//	2  no labeled number was found
//	3  extraction succeeded but the copy failed
//	4  the OCR engine failed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/config"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/extract"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/layout"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/observability"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/ocr"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/pdf"
)

const version = "1.0.0"

type options struct {
	configPath string
	widthFrac  float64
	heightFrac float64
	langs      []string
	verbose    bool
	noCopy     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "extrae-tel <pdf>",
		Short:         "Extract the assigned phone number from a PDF and rename a copy after it",
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML config file")
	cmd.Flags().Float64Var(&opts.widthFrac, "width-frac", 0, "fraction of the page width searched, from the right edge")
	cmd.Flags().Float64Var(&opts.heightFrac, "height-frac", 0, "fraction of the page height searched, from the top edge")
	cmd.Flags().StringSliceVar(&opts.langs, "lang", nil, "OCR languages, in priority order")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "debug logging on stderr")
	cmd.Flags().BoolVar(&opts.noCopy, "no-copy", false, "print the number without copying the file")

	return cmd
}

func run(cmd *cobra.Command, path string, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("width-frac") {
		cfg.ROI.WidthFrac = opts.widthFrac
	}
	if cmd.Flags().Changed("height-frac") {
		cfg.ROI.HeightFrac = opts.heightFrac
	}
	if len(opts.langs) > 0 {
		cfg.OCR.Languages = opts.langs
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := observability.New(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	if err := pdf.NewValidator().ValidatePDFPath(path); err != nil {
		return err
	}

	cfg.OCR.TessdataPrefix = ocr.ResolveTessdata(cfg.OCR)
	roi := cfg.DomainROI()
	renderer := pdf.NewRenderer()
	svc := extract.NewService(
		renderer,
		layout.NewExtractor(pdf.NewLayoutReader(), roi, log),
		ocr.NewExtractor(renderer, ocr.NewClient(cfg.OCR), roi, cfg.OCR, log),
		extract.FileCopier{},
		log,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res *extract.Result
	if opts.noCopy {
		res, err = svc.Extract(ctx, path)
	} else {
		res, err = svc.Run(ctx, path)
	}
	if res != nil {
		// The digits go out even when the copy afterwards failed.
		fmt.Fprintln(cmd.OutOrStdout(), res.Digits)
	}
	return err
}

// exitCode maps an error to the command's exit code contract.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch domain.KindOf(err) {
	case domain.KindInvalidDocument:
		return 1
	case domain.KindNotFound:
		return 2
	case domain.KindCopy:
		return 3
	case domain.KindOCREngine:
		return 4
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}

func main() {
	_ = godotenv.Load()

	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "extrae-tel: %v\n", err)
		os.Exit(exitCode(err))
	}
}
