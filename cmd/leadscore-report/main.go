// Command leadscore-report prints the dashboard view of a JSON lead file
//
//	leadscore-report -file leads.json -from 2026-10-01 -source web -min 70
//	cat leads.json | leadscore-report -file - -q acme
//	leadscore-report -file leads.json -watch
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"leadscore/internal/adapters/feed/filefeed"
	"leadscore/internal/core/dashboard"
	"leadscore/internal/core/leads"
	"leadscore/internal/platform/logger"
)

type opts struct {
	file   string
	from   string
	to     string
	source string
	min    string
	max    string
	query  string
	tz     string
	watch  bool
	pretty bool
}

func parseFlags(args []string, errOut io.Writer) (opts, error) {
	var o opts
	fs := flag.NewFlagSet("leadscore-report", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&o.file, "file", "", "JSON array of leads, '-' reads stdin")
	fs.StringVar(&o.from, "from", "", "first day YYYY-MM-DD (inclusive)")
	fs.StringVar(&o.to, "to", "", "last day YYYY-MM-DD (inclusive)")
	fs.StringVar(&o.source, "source", leads.AllSources, "source to keep, case insensitive")
	fs.StringVar(&o.min, "min", "", "minimum score (inclusive)")
	fs.StringVar(&o.max, "max", "", "maximum score (inclusive)")
	fs.StringVar(&o.query, "q", "", "substring matched against name, email, company, pitch and source")
	fs.StringVar(&o.tz, "tz", "Local", "IANA zone calendar days are computed in")
	fs.BoolVar(&o.watch, "watch", false, "print a new view on every file change until interrupted")
	fs.BoolVar(&o.pretty, "pretty", true, "pretty-print JSON")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.file == "" {
		return o, errors.New("-file is required")
	}
	if o.watch && o.file == "-" {
		return o, errors.New("-watch needs a file path, not stdin")
	}
	return o, nil
}

func (o opts) state() (leads.FilterState, error) {
	from, err := leads.ParseDay(o.from)
	if err != nil {
		return leads.FilterState{}, fmt.Errorf("bad -from: %w", err)
	}
	to, err := leads.ParseDay(o.to)
	if err != nil {
		return leads.FilterState{}, fmt.Errorf("bad -to: %w", err)
	}
	lo, err := bound("min", o.min)
	if err != nil {
		return leads.FilterState{}, err
	}
	hi, err := bound("max", o.max)
	if err != nil {
		return leads.FilterState{}, err
	}
	return leads.FilterState{
		StartDate: from,
		EndDate:   to,
		Source:    o.source,
		MinScore:  lo,
		MaxScore:  hi,
		Query:     o.query,
	}.Normalize(), nil
}

func bound(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("bad -%s: %w", name, err)
	}
	return &v, nil
}

func (o opts) location() (*time.Location, error) {
	if o.tz == "" || o.tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(o.tz)
	if err != nil {
		return nil, fmt.Errorf("bad -tz: %w", err)
	}
	return loc, nil
}

type printer struct {
	w      io.Writer
	pretty bool
}

func (p printer) print(v leads.View) error {
	enc := json.NewEncoder(p.w)
	if p.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// run prints one view, or with -watch one per change until ctx ends
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, now func() time.Time) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	st, err := o.state()
	if err != nil {
		return err
	}
	loc, err := o.location()
	if err != nil {
		return err
	}
	out := printer{w: stdout, pretty: o.pretty}

	if !o.watch {
		var records []leads.Record
		if o.file == "-" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if records, err = leads.DecodeRecords(b); err != nil {
				return fmt.Errorf("decode stdin: %w", err)
			}
		} else if records, err = filefeed.Load(o.file); err != nil {
			return err
		}
		return out.print(leads.Compute(records, st, leads.Options{Now: now(), Loc: loc}))
	}

	log := logger.Named("report")
	views := make(chan leads.View, 8)
	p := dashboard.New(
		dashboard.WithFilter(st),
		dashboard.WithLocation(loc),
		dashboard.WithClock(now),
		dashboard.WithOnChange(func(v leads.View) {
			select {
			case views <- v:
			default:
				log.Warn().Msg("view dropped, printer is behind")
			}
		}),
	)
	<-views // the empty view published on construction
	detach := p.Attach(filefeed.New(o.file))
	defer detach()

	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-views:
			if v.Err != "" {
				log.Warn().Str("file", o.file).Str("error", v.Err).Msg("feed error, showing last snapshot")
			}
			if err := out.print(v); err != nil {
				return err
			}
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, time.Now)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "leadscore-report: %v\n", err)
		os.Exit(2)
	}
}
