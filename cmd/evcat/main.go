package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eviltalk/evlog/escape"
)

var (
	raw   bool
	event string
)

var rootCmd = &cobra.Command{
	Use:   "evcat [file]",
	Short: "Decode an event-log stream into readable fields",
	Long: `evcat reads an event-log stream from a file, or from stdin when the
argument is missing or "-", and prints one line per event with the
fields decoded and separated by tabs.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open stream: %w", err)
			}
			defer f.Close()
			in = f
		}
		return run(in, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&raw, "raw", false, "Print fields as they appear in the stream, without decoding")
	rootCmd.Flags().StringVar(&event, "event", "", "Only print lines whose event name starts with this prefix")
}

func run(in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	sc := bufio.NewScanner(in)
	// Script-source lines carry whole programs, so the default token
	// limit is far too small.
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		fields := escape.SplitFields(sc.Text())
		if event != "" && !strings.HasPrefix(fields[0], event) {
			continue
		}
		if !raw {
			for i, f := range fields {
				fields[i] = decodeField(f)
			}
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return w.Flush()
}

// decodeField unwraps framing quotes and reverses the stream escapes.
// Fields that do not decode cleanly pass through untouched, so one
// malformed event never aborts the whole stream.
func decodeField(f string) string {
	if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
		f = f[1 : len(f)-1]
	}
	decoded, err := escape.Decode(f)
	if err != nil {
		return f
	}
	return decoded
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
