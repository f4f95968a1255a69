// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/picgodisasm/internal/arch"
	"github.com/retroenv/picgodisasm/internal/arch/pic16"
	"github.com/retroenv/picgodisasm/internal/arch/pic18"
	"github.com/retroenv/picgodisasm/internal/disasm"
	"github.com/retroenv/picgodisasm/internal/loader"
	"github.com/retroenv/picgodisasm/internal/options"
	"github.com/retroenv/picgodisasm/internal/symbols"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler) error {

	ar, err := createArchitecture(disasmOptions.Family)
	if err != nil {
		return err
	}

	img, err := loader.New().Load(opts)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	syms, err := loadSymbols(opts)
	if err != nil {
		return fmt.Errorf("loading symbols: %w", err)
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	dis, err := disasm.New(logger, ar, img, syms, disasmOptions)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}

	if _, err := dis.Process(ctx, writer); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".lst"
}

func createArchitecture(family arch.Family) (arch.Architecture, error) {
	switch family {
	case arch.PIC16:
		return pic16.New(), nil
	case arch.PIC18:
		return pic18.New(), nil
	default:
		return nil, fmt.Errorf("unsupported family: %s", family)
	}
}

func loadSymbols(opts options.Program) (*symbols.Table, error) {
	if opts.Symbols == "" {
		return symbols.NewTable(), nil
	}
	return loader.LoadSymbols(opts.Symbols)
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("picgodisasm", log.String("version", buildinfo.Version(version, commit, date)))
}
