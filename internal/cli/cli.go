// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/picgodisasm/internal/arch"
	"github.com/retroenv/picgodisasm/internal/options"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "") {
		return opts, options.Disassembler{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, err
	}

	family, err := arch.FamilyFromString(opts.Family)
	if err != nil {
		return opts, options.Disassembler{}, err
	}

	if opts.Batch == "" {
		opts.Input = args[0]
	}

	disasmOptions := createDisasmOptions(opts, family)
	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: picgodisasm [options] <file to disassemble>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// createDisasmOptions creates disassembler options based on program options
func createDisasmOptions(opts options.Program, family arch.Family) options.Disassembler {
	disasmOptions := options.NewDisassembler(family)
	disasmOptions.Binary = opts.Binary

	// Apply inverse logic for flow comments and unreachable markers
	disasmOptions.FlowComments = !opts.NoComments
	disasmOptions.ShowUnreachable = !opts.NoUnreachable

	return disasmOptions
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input firmware image file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .lst file, printed on console if no name given")
	flags.StringVar(&opts.Symbols, "sym", "", "name of a symbol listing file with 'name 0xADDRESS' lines")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .lst file naming, for example *.hex")
	flags.StringVar(&opts.Family, "f", "pic16", "PIC family to disassemble for (pic16/pic18)")
	flags.BoolVar(&opts.Binary, "binary", false, "read input file as raw binary file instead of Intel HEX")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.NoComments, "nocomments", false, "do not output flow edge comments in the listing")
	flags.BoolVar(&opts.NoUnreachable, "nounreachable", false, "do not mark unreachable instructions in the listing")
}
