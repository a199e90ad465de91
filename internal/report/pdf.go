// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/lindex/pkg/types"
)

const (
	// titleTruncate keeps table titles on one line at 8pt landscape.
	titleTruncate = 120

	creditLine1    = "L-index Calculator by Aleksey V. Belikov, 2025"
	creditLine2    = "L-index concept by Aleksey V. Belikov & Vitaly V. Belikov, 2015"
	methodCitation = "Belikov AV and Belikov VV. A citation-based, author- and age-normalized, " +
		"logarithmic index for evaluation of individual researchers independently of " +
		"publication counts. F1000Research 2015, 4:884"
	methodDOI = "https://doi.org/10.12688/f1000research.7070.1"
)

// WritePDF renders the printable report (R4): author block, partial-data
// banner, index value, contribution table, methodology credits. Core PDF
// fonts are latin-1, so text passes through a replacing translator.
func WritePDF(path string, result types.ComputationResult, topN int, when time.Time) error {
	doc := fpdf.New("L", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	name := result.Author.Name
	if name == "" {
		name = "Name Not Available"
	}
	doc.SetFont("Helvetica", "B", 14)
	doc.MultiCell(0, 10, tr(name), "", "L", false)

	doc.SetFont("Helvetica", "", 10)
	if result.Author.Affiliation != "" {
		doc.MultiCell(0, 5, tr(result.Author.Affiliation), "", "L", false)
	}
	if len(result.Author.Interests) > 0 {
		doc.MultiCell(0, 5, tr(strings.Join(result.Author.Interests, ", ")), "", "L", false)
	}
	if url := result.Author.ProfileURL(); url != "" {
		doc.SetTextColor(0, 0, 255)
		doc.SetFont("Helvetica", "U", 10)
		doc.CellFormat(0, 5, url, "", 1, "L", false, 0, url)
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(0, 0, 0)
	}
	doc.Ln(5)

	if result.RateLimited {
		doc.SetTextColor(255, 0, 0)
		doc.SetFont("Helvetica", "B", 10)
		doc.MultiCell(0, 5, "*** WARNING: processing stopped early due to a source rate limit. "+
			"Results are based on incomplete data. ***", "", "L", false)
		doc.SetTextColor(0, 0, 0)
		doc.Ln(2)
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(30, 6, "L-index:", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, indexText(result.Index), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "I", 9)
	basis := fmt.Sprintf("Calculated on %s based on the %d most cited publications",
		when.Format("2 January 2006"), result.Fetched)
	doc.MultiCell(0, 5, basis, "", "L", false)
	doc.Ln(5)

	top := result.Top(effectiveTopN(topN))
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, fmt.Sprintf("Top %d Contributing Publications", len(top)), "", 1, "L", false, 0, "")
	doc.Ln(2)
	if len(top) == 0 {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, "(no publications were fully processed, or processing stopped early)",
			"", 1, "L", false, 0, "")
	} else {
		contributionTable(doc, tr, top)
	}

	doc.Ln(10)
	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(0, 5, creditLine1, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, creditLine2, "", 1, "L", false, 0, "")
	doc.Ln(2)
	doc.MultiCell(0, 4, methodCitation, "", "L", false)
	doc.SetTextColor(0, 0, 255)
	doc.SetFont("Helvetica", "U", 8)
	doc.CellFormat(0, 4, "("+methodDOI+")", "", 1, "L", false, 0, methodDOI)
	doc.SetTextColor(0, 0, 0)

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf report: %w", err)
	}
	return nil
}

func contributionTable(doc *fpdf.Fpdf, tr func(string) string, top []types.Contribution) {
	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	usable := pageW - left - right

	widths := []float64{10, 18, 18, 18, 12, 14}
	fixed := 0.0
	for _, w := range widths {
		fixed += w
	}
	widths = append(widths, usable-fixed)
	headers := []string{"#", "Score", "Cites", "Authors", "Age", "Year", "Title"}
	aligns := []string{"R", "R", "R", "R", "R", "C", "L"}

	doc.SetFont("Helvetica", "B", 8)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", lastLn(i, len(headers)), "C", false, 0, "")
	}

	doc.SetFont("Helvetica", "", 8)
	for i, c := range top {
		cells := []string{
			fmt.Sprintf("%d.", i+1),
			fmt.Sprintf("%.1f", c.Score),
			strconv.Itoa(c.Citations),
			strconv.Itoa(c.Authors),
			strconv.Itoa(c.Age),
			strconv.Itoa(c.Year),
			tr(truncate(c.Title, titleTruncate)),
		}
		for j, cell := range cells {
			doc.CellFormat(widths[j], 5, cell, "1", lastLn(j, len(cells)), aligns[j], false, 0, "")
		}
	}
}

// lastLn moves to the next line after the final cell of a row.
func lastLn(i, n int) int {
	if i == n-1 {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
