package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/contactscan/internal/config"
	"github.com/nao1215/contactscan/internal/crawler"
	"github.com/nao1215/contactscan/internal/database"
	"github.com/nao1215/contactscan/internal/model"
)

// NewHistoryCmd creates the history command.
// This command inspects crawl results stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [website]",
		Short: "Inspect stored crawl results and their changes over time",
		Long: `History lists the crawl runs recorded for a website and can show how
its published contacts changed between the two most recent runs.

Crawl results are recorded automatically by 'contactscan crawl' unless
--no-save was given.

Examples:
  # List every site with stored results
  contactscan history --list-sites

  # List the recorded runs for one site
  contactscan history www.example.it

  # Show contacts gained and lost between the two most recent runs
  contactscan history --diff www.example.it

  # Same, as JSON
  contactscan history --diff --json www.example.it`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sites", "L", false,
		"List all sites with stored results")
	cmd.Flags().Bool("diff", false,
		"Compare the two most recent runs for the site")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var site string
	if !listSites {
		if len(args) == 0 {
			return errors.New("website is required (use --list-sites to see stored sites)")
		}
		// Accept the same spellings the crawl command accepts
		site, err = crawler.BaseDomain(crawler.EnsureScheme(args[0]))
		if err != nil {
			return fmt.Errorf("invalid website %q: %w", args[0], err)
		}
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSites {
		return listStoredSites(ctx, db)
	}

	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if diff {
		return diffLatestRuns(ctx, db, site, jsonOutput)
	}
	return listRunHistory(ctx, db, site)
}

// listStoredSites lists all sites that have stored results.
func listStoredSites(ctx context.Context, db *database.ContactDB) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Println("No stored results found.")
		fmt.Println("\nUse 'contactscan crawl <website>' to crawl a site.")
		return nil
	}

	fmt.Printf("Stored sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Printf("  - %s\n", site)
	}
	fmt.Println("\nUse 'contactscan history <website>' to see a site's recorded runs.")

	return nil
}

// listRunHistory lists all recorded runs for a site.
func listRunHistory(ctx context.Context, db *database.ContactDB, site string) error {
	runs, err := db.GetSiteHistoryWithMetadata(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No recorded runs found for %s\n", site)
		fmt.Println("\nUse 'contactscan crawl' to crawl this site.")
		return nil
	}

	fmt.Printf("Recorded runs for %s (%d):\n\n", site, len(runs))
	fmt.Printf("  %-6s  %-20s  %-7s  %-7s  %-6s  %s\n",
		"ID", "Date", "Emails", "Phones", "Pages", "Stop Reason")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %-7d  %-7d  %-6d  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.EmailCount,
			meta.PhoneCount,
			meta.PagesVisited,
			meta.StopReason,
		)
	}

	fmt.Println("\nUse 'contactscan history --diff <website>' to compare the latest two runs.")

	return nil
}

// RunDiff holds the contact changes between two stored runs.
type RunDiff struct {
	// Site is the host the runs belong to.
	Site string `json:"site"`

	// PreviousAt and CurrentAt are the completion times of the compared runs.
	PreviousAt time.Time `json:"previous_at"`
	CurrentAt  time.Time `json:"current_at"`

	// NewEmails and RemovedEmails are addresses that appeared in or
	// vanished from the site between the runs.
	NewEmails     []string `json:"new_emails,omitempty"`
	RemovedEmails []string `json:"removed_emails,omitempty"`

	// NewPhones and RemovedPhones are the phone equivalents.
	NewPhones     []string `json:"new_phones,omitempty"`
	RemovedPhones []string `json:"removed_phones,omitempty"`

	// UnchangedEmails and UnchangedPhones count contacts present in both.
	UnchangedEmails int `json:"unchanged_emails"`
	UnchangedPhones int `json:"unchanged_phones"`
}

// diffLatestRuns compares the two most recent runs for a site.
func diffLatestRuns(ctx context.Context, db *database.ContactDB, site string, jsonOutput bool) error {
	latest, previous, err := db.LatestTwo(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get latest runs: %w", err)
	}
	if latest == nil {
		return fmt.Errorf("no recorded runs found for %s", site)
	}
	if previous == nil {
		return fmt.Errorf("at least 2 runs are required for a diff (found 1)")
	}

	diff := diffResults(site, previous, latest)

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diff)
	}
	return outputDiffText(diff)
}

// diffResults computes contact changes between two runs.
func diffResults(site string, previous, current *model.SiteResult) *RunDiff {
	diff := &RunDiff{
		Site:       site,
		PreviousAt: previous.CompletedAt,
		CurrentAt:  current.CompletedAt,
	}

	diff.NewEmails, diff.RemovedEmails, diff.UnchangedEmails =
		diffValues(previous.Emails, current.Emails)
	diff.NewPhones, diff.RemovedPhones, diff.UnchangedPhones =
		diffValues(previous.Phones, current.Phones)

	return diff
}

// diffValues splits current values into new and unchanged, and previous
// values into removed, preserving order.
func diffValues(previous, current []string) (added, removed []string, unchanged int) {
	prevSet := make(map[string]bool, len(previous))
	for _, v := range previous {
		prevSet[v] = true
	}
	currSet := make(map[string]bool, len(current))
	for _, v := range current {
		currSet[v] = true
	}

	for _, v := range current {
		if prevSet[v] {
			unchanged++
		} else {
			added = append(added, v)
		}
	}
	for _, v := range previous {
		if !currSet[v] {
			removed = append(removed, v)
		}
	}
	return added, removed, unchanged
}

// outputDiffText prints the diff in human-readable format.
func outputDiffText(diff *RunDiff) error {
	fmt.Printf("Contact changes: %s\n", diff.Site)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nPrevious run: %s\n", diff.PreviousAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current run:  %s\n", diff.CurrentAt.Format("2006-01-02 15:04:05"))

	if len(diff.NewEmails) > 0 {
		fmt.Printf("\nNew emails (%d):\n", len(diff.NewEmails))
		for _, e := range diff.NewEmails {
			fmt.Printf("  [+] %s\n", e)
		}
	}
	if len(diff.RemovedEmails) > 0 {
		fmt.Printf("\nRemoved emails (%d):\n", len(diff.RemovedEmails))
		for _, e := range diff.RemovedEmails {
			fmt.Printf("  [-] %s\n", e)
		}
	}
	if len(diff.NewPhones) > 0 {
		fmt.Printf("\nNew phones (%d):\n", len(diff.NewPhones))
		for _, p := range diff.NewPhones {
			fmt.Printf("  [+] %s\n", p)
		}
	}
	if len(diff.RemovedPhones) > 0 {
		fmt.Printf("\nRemoved phones (%d):\n", len(diff.RemovedPhones))
		for _, p := range diff.RemovedPhones {
			fmt.Printf("  [-] %s\n", p)
		}
	}

	if len(diff.NewEmails) == 0 && len(diff.RemovedEmails) == 0 &&
		len(diff.NewPhones) == 0 && len(diff.RemovedPhones) == 0 {
		fmt.Println("\nNo contact changes between the two runs.")
	}

	fmt.Printf("\nUnchanged: %d email(s), %d phone(s)\n",
		diff.UnchangedEmails, diff.UnchangedPhones)

	return nil
}
