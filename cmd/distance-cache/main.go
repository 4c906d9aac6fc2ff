package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cognicore/evasao/pkg/evasao/config"
	"github.com/cognicore/evasao/pkg/evasao/maintenance"
	"github.com/cognicore/evasao/pkg/evasao/store"
)

const usage = `usage: distance-cache [flags] list|prune

  list    print cached distances
  prune   delete failed lookups (and, with -older-than, stale entries)
`

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		cachePath  = flag.String("cache", "", "Distance cache path (overrides config)")
		unresolved = flag.Bool("unresolved", false, "list: only failed lookups")
		olderThan  = flag.Duration("older-than", 0, "prune: also delete entries resolved longer ago than this")
		dryRun     = flag.Bool("dry-run", false, "prune: report without deleting")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	comp, err := (&config.Loader{ConfigPath: *configPath, EnvFile: ".env"}).Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *cachePath != "" {
		comp.Config.CachePath = *cachePath
	}
	st, err := comp.OpenStore(ctx)
	if err != nil {
		log.Fatalf("open cache: %v", err)
	}
	defer st.Close()

	switch flag.Arg(0) {
	case "list":
		err = list(ctx, os.Stdout, st, *unresolved)
	case "prune":
		p := &maintenance.Pruner{Store: st, DryRun: *dryRun}
		if *olderThan > 0 {
			p.Before = time.Now().Add(-*olderThan)
		}
		err = prune(ctx, os.Stdout, p)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func list(ctx context.Context, w io.Writer, st store.Store, onlyUnresolved bool) error {
	recs, err := maintenance.List(ctx, st, onlyUnresolved)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NEIGHBORHOOD\tCITY\tSTATE\tMODE\tKM\tDURATION\tDEPARTURE\tRESOLVED")
	for _, r := range recs {
		km := "-"
		if r.Entry.Resolved() {
			km = fmt.Sprintf("%.2f", r.Entry.DistanceKm)
		}
		resolved := "-"
		if !r.Entry.ResolvedAt.IsZero() {
			resolved = r.Entry.ResolvedAt.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Key.Neighborhood, r.Key.City, r.Key.State, r.Key.Mode,
			km, dash(r.Entry.Duration), dash(r.Entry.Departure), resolved)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d entries\n", len(recs))
	return err
}

func prune(ctx context.Context, w io.Writer, p *maintenance.Pruner) error {
	res, err := p.Prune(ctx)
	if err != nil {
		return err
	}
	for _, k := range res.Keys {
		fmt.Fprintln(w, k.String())
	}
	verb, n := "removed", res.Removed
	if p.DryRun {
		verb, n = "would remove", len(res.Keys)
	}
	_, err = fmt.Fprintf(w, "scanned %d, %s %d\n", res.Scanned, verb, n)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
