// Command inquiries prints contact form submissions stored by the site.
//
//	inquiries [-db path] [-n 20] [-json] [id]
//
// With an id argument it prints that single inquiry. The database path
// defaults to IATSITE_DB_PATH.
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

	sqliteadapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/config"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("inquiries failed", "error", err)
		os.Exit(1)
	}
}

type inquiryJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Course    string    `json:"course,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type listing struct {
	Total     int           `json:"total"`
	Inquiries []inquiryJSON `json:"inquiries"`
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("inquiries", flag.ContinueOnError)
	dbPath := fs.String("db", cfg.DBPath, "path to the inquiries database")
	limit := fs.Int("n", 20, "number of recent inquiries to print")
	asJSON := fs.Bool("json", false, "print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 0 {
		return fmt.Errorf("-n must not be negative, got %d", *limit)
	}

	db, err := sqliteadapter.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return fmt.Errorf("migrate %s: %w", *dbPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := application.NewInquiryService(sqliteadapter.NewInquiryRepo(db))

	if id := fs.Arg(0); id != "" {
		inquiry, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		if *asJSON {
			return writeJSON(out, toJSON(inquiry))
		}
		printInquiry(out, inquiry)
		return nil
	}

	total, err := svc.Count(ctx)
	if err != nil {
		return err
	}
	recent, err := svc.Recent(ctx, *limit)
	if err != nil {
		return err
	}

	if *asJSON {
		l := listing{Total: total, Inquiries: make([]inquiryJSON, 0, len(recent))}
		for _, inq := range recent {
			l.Inquiries = append(l.Inquiries, toJSON(inq))
		}
		return writeJSON(out, l)
	}

	fmt.Fprintf(out, "%d stored, showing %d\n", total, len(recent))
	for _, inq := range recent {
		fmt.Fprintln(out)
		printInquiry(out, inq)
	}
	return nil
}

func printInquiry(out io.Writer, inq model.Inquiry) {
	fmt.Fprintf(out, "%s  %s\n", inq.CreatedAt.Format(time.RFC3339), inq.ID)
	fmt.Fprintf(out, "  %s <%s> %s\n", inq.Name, inq.Email, inq.Phone)
	if inq.Course != "" {
		fmt.Fprintf(out, "  course: %s\n", inq.Course)
	}
	fmt.Fprintf(out, "  %s\n", inq.Message)
}

func toJSON(inq model.Inquiry) inquiryJSON {
	return inquiryJSON{
		ID:        inq.ID,
		Name:      inq.Name,
		Email:     inq.Email,
		Phone:     inq.Phone,
		Course:    inq.Course,
		Message:   inq.Message,
		CreatedAt: inq.CreatedAt,
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
