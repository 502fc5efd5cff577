package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/careinsight/recordpdf/config"
	"github.com/careinsight/recordpdf/document"
	"github.com/careinsight/recordpdf/export"
	"github.com/careinsight/recordpdf/observability"
	"github.com/careinsight/recordpdf/redact"
	"github.com/careinsight/recordpdf/seal"
)

// PassphraseEnv names the environment variable holding the seal passphrase.
const PassphraseEnv = "RECORDPDF_PASSPHRASE"

type globalFlags struct {
	verbose bool
	logger  *zap.Logger
}

type outputFlags struct {
	configPath string
	backend    string
	out        string
	seal       bool
	redact     bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "TOML configuration file")
	cmd.Flags().StringVar(&o.backend, "backend", "", "PDF backend: native or fpdf (overrides config)")
	cmd.Flags().StringVarP(&o.out, "out", "o", ".", "output directory or file path")
	cmd.Flags().BoolVar(&o.seal, "seal", false, "encrypt the PDF with the passphrase in "+PassphraseEnv)
	cmd.Flags().BoolVar(&o.redact, "redact", false, "replace personal identifiers before layout (implied by [redact] enabled)")
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "recordpdf",
		Short:         "Render health record summaries to paginated PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if g.verbose {
				cfg = zap.NewDevelopmentConfig()
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			g.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.AddCommand(newRenderCmd(g), newDemoCmd(g))
	return root
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var (
		input  string
		format string
		out    outputFlags
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a summary file (JSON, YAML, Markdown or HTML)",
		Long: `Render a summary document to PDF.

The input format follows the file extension unless --format is given.
Use --input - to read from standard input; --format is then required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), input, format)
			if err != nil {
				return export.NewError(export.KindValidation, "read input", err)
			}
			return run(cmd, g, out, doc)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "summary file, or - for stdin")
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json, yaml, markdown or html")
	_ = cmd.MarkFlagRequired("input")
	out.register(cmd)
	return cmd
}

func newDemoCmd(g *globalFlags) *cobra.Command {
	var (
		subject string
		out     outputFlags
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render the built-in demo summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := document.Demo()
			if subject != "" {
				doc.SubjectID = subject
			}
			doc.GeneratedAt = time.Now().Format("2 January 2006 at 15:04")
			return run(cmd, g, out, doc)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject identifier printed on the summary")
	out.register(cmd)
	return cmd
}

func readDocument(stdin io.Reader, input, format string) (document.Document, error) {
	var (
		f   document.Format
		err error
	)
	switch {
	case format != "":
		f, err = document.ParseFormat(format)
	case input == "-":
		err = fmt.Errorf("--format is required when reading stdin")
	default:
		f, err = document.FormatFromPath(input)
	}
	if err != nil {
		return document.Document{}, err
	}

	var data []byte
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return document.Document{}, err
	}
	return document.Decode(bytes.NewReader(data), f)
}

func run(cmd *cobra.Command, g *globalFlags, out outputFlags, doc document.Document) error {
	var file config.File
	if out.configPath != "" {
		var err error
		if file, err = config.Load(out.configPath); err != nil {
			return export.NewError(export.KindValidation, "load config", err)
		}
	}
	opts, err := file.ExportOptions()
	if err != nil {
		return export.NewError(export.KindValidation, "config", err)
	}
	if out.backend != "" {
		opts.Backend = out.backend
	}
	if out.redact && opts.Redact == nil {
		opts.Redact = redact.Default()
	}
	opts.Clock = time.Now
	opts.Logger = observability.NewZap(g.logger)

	art, err := export.New(opts).Render(doc)
	if err != nil {
		return err
	}
	if out.seal {
		pass := os.Getenv(PassphraseEnv)
		if pass == "" {
			return export.NewError(export.KindValidation, "seal", fmt.Errorf("%s is not set", PassphraseEnv))
		}
		if art, err = art.Seal(pass, seal.Options{}); err != nil {
			return err
		}
	}

	dir := file.Output.Dir
	if cmd.Flags().Changed("out") || dir == "" {
		dir = out.out
	}
	path := targetPath(dir, art.Name)
	if err := os.WriteFile(path, art.Data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s, %d page(s)\n", path, art.Pages)
	return nil
}

// targetPath treats out as a directory when it exists as one or ends with a
// separator; otherwise it is the file path.
func targetPath(out, name string) string {
	if strings.HasSuffix(out, string(os.PathSeparator)) || strings.HasSuffix(out, "/") {
		return filepath.Join(out, name)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
