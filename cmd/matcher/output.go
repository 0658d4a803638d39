package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/example/talent-matching/internal/matching"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	headingColor = color.New(color.FgYellow)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, format+"\n", args...)
}

// reportResult prints the outcome label of an engine error and returns it unchanged.
func reportResult(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	failureColor.Fprintf(w, "%s: %v\n", matching.ResultOf(err), err)
	return err
}

func printRecommendations(w io.Writer, candidate matching.Candidate, recs []matching.Recommendation) {
	headingColor.Fprintf(w, "\nRecommendations for %s (%s)\n", candidate.FullName(), candidate.Kind())
	if len(recs) == 0 {
		fmt.Fprintln(w, "no open offer to recommend")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Offer", "Title", "Type", "Company", "Score"})
	for i, r := range recs {
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.Offer.ID,
			r.Offer.Title,
			string(r.Offer.Type()),
			r.Offer.CompanyID,
			strconv.FormatFloat(r.Score, 'f', 1, 64),
		})
	}
	table.Render()
}

func printCandidates(w io.Writer, title string, candidates []matching.Candidate) {
	headingColor.Fprintf(w, "\n%s\n", title)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Kind", "Email"})
	for _, c := range candidates {
		table.Append([]string{c.ID, c.FullName(), string(c.Kind()), c.Email})
	}
	table.Render()
}

func printStats(w io.Writer, stats matching.OfferStats) {
	headingColor.Fprintln(w, "\nOffer statistics")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Internships", "Apprenticeships", "Theses", "Active", "Expired", "Total"})
	table.Append([]string{
		strconv.Itoa(stats.Internships),
		strconv.Itoa(stats.Apprenticeships),
		strconv.Itoa(stats.Theses),
		strconv.Itoa(stats.Active),
		strconv.Itoa(stats.Expired),
		strconv.Itoa(stats.Total),
	})
	table.Render()
}
