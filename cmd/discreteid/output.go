package main

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/TrevorS/discreteid"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// significance is the p-value below which the model is reported as rejected.
const significance = 0.05

var (
	bold   = color.New(color.Bold).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

// number formats a float, marking missing estimates.
func number(x float64) string {
	if math.IsNaN(x) {
		return yellow("nan")
	}
	return fmt.Sprintf("%.4f", x)
}

// printFit sends a summary of one fit to the output writer.
func printFit(w io.Writer, fit *discreteid.FitResult) {
	k, n := fit.Scales.Totals()
	output(w, "Method:\t\t%s\n", bold(fit.Method.String()))
	output(w, "Points:\t\t%s\n", bold("%d", fit.Scales.Len()))
	output(w, "Neighbors:\t%s outer, %s inner\n", bold("%d", k), bold("%d", n))
	output(w, "Dimension:\t%s ± %s\n", bold("%s", number(fit.Dim)), number(fit.Err))
	if fit.Degenerate() {
		output(w, "Warning:\t%s\n", yellow("%s", fit.Degeneracy))
	}
}

// printValidation sends the Kolmogorov-Smirnov test result to the output
// writer.
func printValidation(w io.Writer, res *discreteid.ValidationResult) {
	mode := "exact CDF"
	if !res.CDF {
		mode = "sampled"
	}
	verdict := green("consistent")
	if res.PValue < significance {
		verdict = red("rejected")
	}
	output(w, "KS test:\t%s, D = %s, p = %s (%s)\n", mode, number(res.Statistic), bold("%.3g", res.PValue), verdict)
}

// printDensity sends the mean densities to the output writer.
func printDensity(w io.Writer, ld *discreteid.LocalDensity) {
	output(w, "Density:\t%s outer, %s inner (neighbors per site)\n",
		bold("%.4g", ld.OuterMean), bold("%.4g", ld.InnerMean))
}

// printCurve sends a formatted table of a scaling curve to the output writer.
func printCurve(w io.Writer, label string, labels []string, curve discreteid.ScalingCurve) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{label, "Scale", "Dimension", "Error"})
	tbl.SetBorder(true)

	for i, p := range curve {
		tbl.Append([]string{labels[i], number(p.Scale), number(p.Dim), number(p.Err)})
	}

	tbl.Render()
}

// printGrowth sends the lattice and continuum growth fits side by side.
func printGrowth(w io.Writer, lattice, continuum discreteid.ScalingCurve) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Radius", "Lattice d", "RMS", "Continuum d", "Std err"})
	tbl.SetBorder(true)

	for i := range lattice {
		tbl.Append([]string{
			fmt.Sprintf("%g", lattice[i].Scale),
			number(lattice[i].Dim),
			number(lattice[i].Err),
			number(continuum[i].Dim),
			number(continuum[i].Err),
		})
	}

	tbl.Render()
}

// printHistogram sends the nonempty distance shells to the output writer.
func printHistogram(w io.Writer, h *discreteid.DistanceHistogram) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Shell", "Pairs"})
	tbl.SetBorder(true)

	for r, c := range h.Counts {
		if c == 0 {
			continue
		}
		tbl.Append([]string{fmt.Sprintf("%d", r), fmt.Sprintf("%d", c)})
	}
	if h.Overflow > 0 {
		tbl.SetFooter([]string{"beyond", fmt.Sprintf("%d", h.Overflow)})
	}

	tbl.Render()
}

// output the given message with formatting.
func output(w io.Writer, format string, a ...any) {
	_, err := fmt.Fprintf(w, format, a...)
	if err != nil {
		log.Println("output error", err.Error())
	}
}
