// Command contentcheck validates a set of content feeds before they are
// deployed. With no arguments it checks the embedded fixtures; with a
// directory argument it checks the feed files in that directory.
//
//	contentcheck [-json] [dir]
//
// It exits 1 when a feed is missing, malformed or fails validation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	contentadapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/content"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("content check failed", "error", err)
		os.Exit(1)
	}
}

// summary is the report printed for a valid content set.
type summary struct {
	Source       string         `json:"source"`
	Courses      int            `json:"courses"`
	Categories   []string       `json:"categories"`
	PerCategory  map[string]int `json:"per_category"`
	Testimonials int            `json:"testimonials"`
	Companies    int            `json:"companies"`
	Placements   int            `json:"placements"`
	Stats        []string       `json:"stats"`
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("contentcheck", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var source driven.ContentSource = contentadapter.NewEmbeddedSource()
	if dir := fs.Arg(0); dir != "" {
		src, err := contentadapter.NewDirSource(dir)
		if err != nil {
			return err
		}
		source = src
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := application.NewContentService(source).Load(ctx)
	if err != nil {
		return err
	}

	s := summarize(snap)
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(out, "source:       %s\n", s.Source)
	fmt.Fprintf(out, "courses:      %d\n", s.Courses)
	for _, c := range s.Categories {
		fmt.Fprintf(out, "  %-20s %d\n", c, s.PerCategory[c])
	}
	fmt.Fprintf(out, "testimonials: %d\n", s.Testimonials)
	fmt.Fprintf(out, "companies:    %d\n", s.Companies)
	fmt.Fprintf(out, "placements:   %d\n", s.Placements)
	fmt.Fprintf(out, "stats:        %d\n", len(s.Stats))
	fmt.Fprintln(out, "ok")
	return nil
}

func summarize(snap *application.ContentSnapshot) summary {
	categories := snap.Catalog.Categories()
	perCategory := make(map[string]int, len(categories))
	for _, c := range categories {
		perCategory[c] = len(snap.Catalog.Filter(c))
	}

	stats := snap.Content.Site.AllStats()
	statIDs := make([]string, 0, len(stats))
	for _, st := range stats {
		statIDs = append(statIDs, st.ID)
	}

	return summary{
		Source:       snap.Source,
		Courses:      len(snap.Content.Courses),
		Categories:   categories,
		PerCategory:  perCategory,
		Testimonials: len(snap.Content.Testimonials),
		Companies:    len(snap.Content.Companies),
		Placements:   len(snap.Content.Placements),
		Stats:        statIDs,
	}
}
