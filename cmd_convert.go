package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ddmoney420/moji/page"
	"github.com/ddmoney420/moji/raster"
	"github.com/ddmoney420/moji/render"
	"github.com/ddmoney420/moji/system"
)

const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatTerm = "term"
	FormatText = "text"
	FormatPNG  = "png"
)

type convertOptions struct {
	Format     string
	Standalone bool
	Title      string
	Color      string
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("format", "f", FormatHTML, "output format: html, json, term, text, png")
	convertCmd.Flags().Bool("standalone", false, "wrap html output in a complete document")
	convertCmd.Flags().String("title", "", "document title for --standalone (default: file name)")
	convertCmd.Flags().String("color", "auto", "color profile for term output: auto, none, ansi, ansi256, truecolor")
	convertCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	convertCmd.Flags().Bool("watch", false, "re-render whenever the input file changes")
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert ANSI art from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opt convertOptions
		opt.Format, _ = cmd.Flags().GetString("format")
		opt.Standalone, _ = cmd.Flags().GetBool("standalone")
		opt.Title, _ = cmd.Flags().GetString("title")
		opt.Color, _ = cmd.Flags().GetString("color")
		output, _ := cmd.Flags().GetString("output")
		watch, _ := cmd.Flags().GetBool("watch")

		source := "-"
		if len(args) == 1 {
			source = args[0]
		}
		if opt.Title == "" && source != "-" {
			opt.Title = filepath.Base(source)
		}
		if watch && (source == "-" || output == "") {
			return fmt.Errorf("--watch needs an input file and --output")
		}

		run := func() error {
			input, err := readSource(source, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := convert(input, opt)
			if err != nil {
				return err
			}
			return writeOutput(output, cmd.OutOrStdout(), out)
		}
		if err := run(); err != nil {
			return err
		}
		if !watch {
			return nil
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		system.Logger.Info("watching", "file", source, "output", output)
		return watchFile(ctx, source, DefaultWatchDebounce, func() {
			if err := run(); err != nil {
				system.Logger.Error("convert", "file", source, "err", err)
				return
			}
			system.Logger.Info("rendered", "file", source)
		})
	},
}

func readSource(source string, stdin io.Reader) (string, error) {
	var b []byte
	var err error
	if source == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(source)
	}
	return string(b), err
}

func writeOutput(output string, stdout io.Writer, out []byte) error {
	if output == "" {
		_, err := stdout.Write(out)
		return err
	}
	return os.WriteFile(output, out, 0644)
}

func convert(input string, opt convertOptions) ([]byte, error) {
	rd := renderInput(input, len(input))
	var buf bytes.Buffer
	switch opt.Format {
	case FormatHTML:
		if !opt.Standalone {
			buf.WriteString(rd.Html)
			break
		}
		if err := loadDocumentTemplates(); err != nil {
			return nil, err
		}
		err := page.Render(&buf, page.TnameDocument, &page.Document{
			Title:       opt.Title,
			ContentHtml: template.HTML(rd.Html),
		})
		if err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&page.ConvertResp{
			Html: rd.Html,
			Runs: rd.Runs,
			Text: render.PlainText(rd.Runs),
		}); err != nil {
			return nil, err
		}
	case FormatTerm:
		profile, err := colorProfile(opt.Color)
		if err != nil {
			return nil, err
		}
		buf.WriteString(render.Terminal(rd.Runs, profile))
	case FormatText:
		buf.WriteString(render.PlainText(rd.Runs))
	case FormatPNG:
		if err := raster.EncodePNG(&buf, rd.Runs, raster.DefaultOptions()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format: %q", opt.Format)
	}
	return buf.Bytes(), nil
}

func colorProfile(name string) (termenv.Profile, error) {
	switch strings.ToLower(name) {
	case "auto", "":
		return termenv.EnvColorProfile(), nil
	case "none":
		return termenv.Ascii, nil
	case "ansi":
		return termenv.ANSI, nil
	case "ansi256":
		return termenv.ANSI256, nil
	case "truecolor":
		return termenv.TrueColor, nil
	}
	return termenv.Ascii, fmt.Errorf("unknown color profile: %q", name)
}

// loadDocumentTemplates loads the built-in templates for offline use. Routes
// are never resolved by the document template.
func loadDocumentTemplates() error {
	return page.LoadTemplates("", templateFuncMap(mux.NewRouter()))
}
