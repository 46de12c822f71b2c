package main

import (
	"fmt"
	"io"
	"os"

	"github.com/heathj/htmlsax/parser"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	var (
		locations bool
		debug     bool
	)

	flags := pflag.NewFlagSet("htmlsax", pflag.ExitOnError)
	flags.BoolVarP(&locations, "locations", "l", false, "Prefix every event with line:col")
	flags.BoolVar(&debug, "debug", false, "Trace tokenizer and tree construction steps")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: htmlsax [flags] [FILE...]\n\nPrints the parse events of each HTML file, or stdin.\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	p := parser.NewParser(parser.Config{Debug: debug})
	files := flags.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		if err := dump(p, name, locations, os.Stdout); err != nil {
			logrus.WithError(err).WithField("file", name).Fatal("cannot parse document")
		}
	}
}

func dump(p *parser.Parser, name string, locations bool, w io.Writer) error {
	var in io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "opening %s", name)
		}
		defer f.Close()
		in = f
	}

	log := &parser.EventLog{Locations: locations}
	if err := p.ParseReader(log, in); err != nil {
		return err
	}
	for _, event := range log.Events {
		if _, err := fmt.Fprintln(w, event); err != nil {
			return errors.Wrap(err, "writing events")
		}
	}
	return nil
}
