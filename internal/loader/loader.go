// Package loader handles firmware image file loading.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/options"
	"github.com/retroenv/picgodisasm/internal/symbols"
)

// Loader handles loading of firmware image files.
type Loader struct {
}

// New creates a new file loader.
func New() *Loader {
	return &Loader{}
}

// Load loads the input file as firmware image, either as Intel HEX or
// as raw binary depending on the program options.
func (l *Loader) Load(opts options.Program) (*image.Image, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", opts.Input, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if opts.Binary {
		return loadBinary(file)
	}
	return loadHex(file)
}

// loadBinary reads the whole input as one image segment starting at address 0.
func loadBinary(reader io.Reader) (*image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading binary file: %w", err)
	}
	return image.New(image.Segment{Address: 0, Data: data}), nil
}

// loadHex parses the input as Intel HEX records and converts the
// resulting memory segments into image segments.
func loadHex(reader io.Reader) (*image.Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(reader); err != nil {
		return nil, fmt.Errorf("parsing Intel HEX file: %w", err)
	}

	dataSegments := mem.GetDataSegments()
	segments := make([]image.Segment, 0, len(dataSegments))
	for _, segment := range dataSegments {
		segments = append(segments, image.Segment{
			Address: int(segment.Address),
			Data:    segment.Data,
		})
	}
	return image.New(segments...), nil
}

// LoadSymbols reads a symbol listing file with one "name address" pair
// per line. Empty lines and lines starting with ; or # are skipped.
func LoadSymbols(fileName string) (*symbols.Table, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening symbol file '%s': %w", fileName, err)
	}
	defer func() {
		_ = file.Close()
	}()

	table := symbols.NewTable()
	scanner := bufio.NewScanner(file)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("parsing symbol file line %d: expected 'name address' but got '%s'", lineNumber, line)
		}

		address, err := strconv.ParseInt(fields[1], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing symbol file line %d address '%s': %w", lineNumber, fields[1], err)
		}

		table.Add(int(address), fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading symbol file: %w", err)
	}
	return table, nil
}
