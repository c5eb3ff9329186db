package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"btt/internal/domain"
	"btt/internal/persist"
)

// ReviewViewer displays step failures in an interactive TUI
type ReviewViewer struct {
	store persist.RunStore
}

// NewReviewViewer creates a new ReviewViewer
func NewReviewViewer(store persist.RunStore) *ReviewViewer {
	return &ReviewViewer{
		store: store,
	}
}

// View displays step failures in an interactive TUI
func (rv *ReviewViewer) View(summary *domain.RunSummary) error {
	if len(summary.Failures) == 0 {
		color.Green("✓ No step failures found!")
		return nil
	}

	// Track triaged failures (by index) - loaded from the run index
	triaged := make(map[int]bool)
	for i, failure := range summary.Failures {
		if failure.Triaged {
			triaged[i] = true
		}
	}

	// Function to save triaged status back to the run index
	saveTriagedStatus := func() error {
		for i := range summary.Failures {
			summary.Failures[i].Triaged = triaged[i]
		}
		return rv.store.SaveRun(summary)
	}

	// Create the application
	app := tview.NewApplication()

	// Create list for failed steps (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	// Function to get formatted text for a list item
	getListItemText := func(index int) string {
		failure := summary.Failures[index]
		name := failure.CaseID
		if name == "" {
			name = fmt.Sprintf("Case %d", index+1)
		}
		name = fmt.Sprintf("%s (step %d)", name, failure.Step)

		if triaged[index] {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
	}

	// Function to update list item display with triaged status
	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		mainText := getListItemText(index)
		list.SetItemText(index, mainText, "")
	}

	// Add failed steps to the list with numbers and colors
	for i := range summary.Failures {
		mainText := getListItemText(i)
		list.AddItem(mainText, "", 0, nil)
	}

	// Set list colors for better visibility
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Create stats header view (shows source and case info)
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	// Create text view for failure details (right side)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	// Create a container with right padding for the details view
	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	// Create right side layout: stats on top, details below
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// Create simple flex layout: list on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	// Count untriaged failures
	countUntriaged := func() int {
		count := 0
		for i := range summary.Failures {
			if !triaged[i] {
				count++
			}
		}
		return count
	}

	// Create header text view (so we can update it)
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	// Function to update header
	updateHeader := func() {
		untriaged := countUntriaged()
		headerText := fmt.Sprintf(" Step Failures (%d total, %d untriaged) | Use ↑↓ to navigate, [yellow]T[white] to mark triaged, → to view details, ← to go back, Ctrl+C to exit ", len(summary.Failures), untriaged)
		headerView.SetText(headerText)
	}

	// Set initial header
	updateHeader()

	// Update details when selection changes
	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(summary.Failures) {
			failure := summary.Failures[index]

			// Update stats header
			statsText := rv.formatFailureStats(failure, index+1)
			statsView.SetText(statsText)

			// Update failure details
			detailsView.SetText(rv.formatFailureDetails(failure))
		}
	}

	// Set up keyboard handlers for list
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 't' || event.Rune() == 'T' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(summary.Failures) {
					triaged[index] = !triaged[index]
					updateListItem(index)
					updateHeader()
					updateDetails()
					if err := saveTriagedStatus(); err != nil {
						_ = err
					}
				}
				return nil
			}
		}
		return event
	})

	// Set up keyboard handlers for details view
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	// Update details when list selection changes
	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	// Set initial details
	updateDetails()

	// Create main layout with title
	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	// Run the application
	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// formatFailureDetails formats a step failure for display using tview color tags ([red], [cyan], etc.)
func (rv *ReviewViewer) formatFailureDetails(failure domain.StepFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	// Case name
	fmt.Fprintf(w, "[red]✗ Case: %s[white]\n", failure.CaseID)
	if failure.CaseTitle != "" {
		fmt.Fprintf(w, "[red]%s[white]\n", failure.CaseTitle)
	}
	fmt.Fprintf(w, "\n")

	// Source file and step position
	fmt.Fprintf(w, "[cyan]Source: %s[white]\n", failure.Source)
	fmt.Fprintf(w, "[yellow]Location: step %d[white]\n", failure.Step)
	fmt.Fprintf(w, "\n")

	// Dispatched command
	if failure.Command != "" {
		fmt.Fprintf(w, "[yellow]Command:[white]\n%s\n\n", failure.Command)
	}

	// Expected outcome
	if failure.Expected != "" {
		fmt.Fprintf(w, "[yellow]Expected:[white]\n%s\n\n", failure.Expected)
	}

	// What the browser reported
	if failure.Observed != "" {
		fmt.Fprintf(w, "[yellow]Observed:[white]\n%s\n\n", failure.Observed)
	}

	// Error message
	if failure.Error != "" {
		fmt.Fprintf(w, "[yellow]Error:[white]\n%s\n", failure.Error)
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the stats header for a step failure
func (rv *ReviewViewer) formatFailureStats(failure domain.StepFailure, number int) string {
	var builder strings.Builder

	source := failure.Source
	if source == "" {
		source = "Unknown source"
	}

	caseName := failure.CaseID
	if caseName == "" {
		caseName = fmt.Sprintf("Case %d", number)
	}

	statsLine := fmt.Sprintf("[cyan]source:[white] [yellow]%s[white]::[yellow]%s[white]", source, caseName)
	builder.WriteString(statsLine)
	builder.WriteString("\n")

	return builder.String()
}
