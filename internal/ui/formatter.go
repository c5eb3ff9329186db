package ui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"btt/internal/config"
	"btt/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		config: cfg,
	}
}

// PrintRunStats displays the statistics of a finished run
func (f *Formatter) PrintRunStats(summary *domain.RunSummary) {
	// Clear terminal screen
	fmt.Print("\033[2J\033[H")

	meta := summary.Meta

	// Print header
	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Case Execution Statistics                  ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	// Print table
	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	// Total Cases
	fmt.Printf("│ %-31s │ ", "Total Cases")
	color.White("%-27d │\n", meta.TotalCases)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Completed Cases
	fmt.Printf("│ %-31s │ ", "Completed Cases")
	color.Green("%-27d │\n", meta.CompletedCases)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Failed Cases
	fmt.Printf("│ %-31s │ ", "Failed Cases")
	color.Red("%-27d │\n", meta.FailedCases)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Pending Cases
	fmt.Printf("│ %-31s │ ", "Pending Cases")
	color.Yellow("%-27d │\n", meta.PendingCases)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Passed Steps
	fmt.Printf("│ %-31s │ ", "Passed Steps")
	color.Green("%-27s │\n", fmt.Sprintf("%d/%d", meta.PassedSteps, meta.TotalSteps))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Failed Steps
	fmt.Printf("│ %-31s │ ", "Failed Steps")
	color.Red("%-27d │\n", meta.FailedSteps)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Success Rate
	fmt.Printf("│ %-31s │ ", "Success Rate")
	color.White("%-27s │\n", fmt.Sprintf("%.1f%%", meta.SuccessRate*100))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Duration
	fmt.Printf("│ %-31s │ ", "Duration")
	durationStr := fmt.Sprintf("%.2fs", meta.DurationSeconds)
	color.White("%-27s │\n", durationStr)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Workers
	fmt.Printf("│ %-31s │ ", "Workers")
	color.White("%-27d │\n", meta.Workers)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	// Timestamp
	fmt.Printf("│ %-31s │ ", "Timestamp")
	color.White("%-27s │\n", meta.Timestamp)

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Println()
	switch {
	case meta.FailedCases > 0:
		color.Red("✗ %d test case(s) failed with %d failed step(s)", meta.FailedCases, meta.FailedSteps)
		fmt.Println()
		f.printFailureTree(summary.Failures)
	case meta.PendingCases > 0:
		color.Yellow("run stopped early, %d test case(s) still pending", meta.PendingCases)
	default:
		color.Green("✓ All test cases completed!")
	}
}

// treeNode represents a node in the source tree structure
type treeNode struct {
	Name     string
	Children map[string]*treeNode
	Failures []domain.StepFailure
	IsFile   bool
}

// printFailureTree prints a tree structure of failed steps grouped by source file
func (f *Formatter) printFailureTree(failures []domain.StepFailure) {
	if len(failures) == 0 {
		return
	}

	// Group failures by source file
	fileMap := make(map[string][]domain.StepFailure)
	for _, failure := range failures {
		key := f.relPath(failure.Source)
		fileMap[key] = append(fileMap[key], failure)
	}

	root := &treeNode{
		Name:     "",
		Children: make(map[string]*treeNode),
		IsFile:   false,
	}

	// Process each file
	for filePath, fileFailures := range fileMap {
		parts := strings.Split(strings.TrimPrefix(filepath.ToSlash(filePath), "./"), "/")
		current := root

		// Navigate/create tree nodes for each path part
		for i, part := range parts {
			if part == "" {
				continue
			}

			if current.Children[part] == nil {
				current.Children[part] = &treeNode{
					Name:     part,
					Children: make(map[string]*treeNode),
					IsFile:   i == len(parts)-1,
				}
			}

			current = current.Children[part]

			// If this is the file (last part), add failures
			if i == len(parts)-1 {
				current.Failures = fileFailures
			}
		}
	}

	// Print tree recursively
	f.printTreeNode(root, "", true)
}

func (f *Formatter) printTreeNode(node *treeNode, prefix string, isRoot bool) {
	// Sort children for consistent output
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Print children
	for i, key := range keys {
		child := node.Children[key]
		isLastChild := i == len(keys)-1

		// Determine connector
		var connector string
		if isRoot {
			connector = ""
		} else if isLastChild {
			connector = prefix + "   |_"
		} else {
			connector = prefix + "  |_"
		}

		// Print child node
		if child.IsFile {
			color.Yellow("%s%s", connector, child.Name)
		} else {
			color.Cyan("%s%s", connector, child.Name)
		}

		// Print failed steps if this is a file
		if child.IsFile && len(child.Failures) > 0 {
			for j, failure := range child.Failures {
				isLastCase := j == len(child.Failures)-1
				var casePrefix string
				if isLastChild {
					if isLastCase {
						casePrefix = strings.ReplaceAll(prefix, "|", " ") + "        |_"
					} else {
						casePrefix = prefix + "  |        |_"
					}
				} else {
					if isLastCase {
						casePrefix = prefix + "  |        |_"
					} else {
						casePrefix = prefix + "  |  |     |_"
					}
				}
				color.Red("%s%s (step %d)", casePrefix, failure.CaseID, failure.Step)
			}
		}

		// Recursively print children
		var newPrefix string
		if isRoot {
			newPrefix = "  "
		} else if isLastChild {
			newPrefix = strings.ReplaceAll(prefix, "|", " ") + "  "
		} else {
			newPrefix = prefix + "  |"
		}
		f.printTreeNode(child, newPrefix, false)
	}
}

// relPath returns a path relative to the project for cleaner display
func (f *Formatter) relPath(path string) string {
	rel, err := filepath.Rel(f.config.ProjectPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// PrintCaseList prints loaded test cases grouped by source file, optionally with steps.
// failedIDs is optional; if set, cases in this set are marked with [F] in red (from last run).
func (f *Formatter) PrintCaseList(cases []*domain.TestCase, showSteps bool, failedIDs map[string]struct{}) {
	// Group cases by source file, keeping first-seen order
	var sources []string
	bySource := make(map[string][]*domain.TestCase)
	for _, tc := range cases {
		if _, ok := bySource[tc.Source]; !ok {
			sources = append(sources, tc.Source)
		}
		bySource[tc.Source] = append(bySource[tc.Source], tc)
	}

	color.Green("Found %d test case(s) in %d source file(s):\n", len(cases), len(sources))

	for i, source := range sources {
		isLastFile := i == len(sources)-1

		// Print source file as root node
		if isLastFile {
			color.Cyan("└── %s", f.relPath(source))
		} else {
			color.Cyan("├── %s", f.relPath(source))
		}

		filePrefix := "│   "
		if isLastFile {
			filePrefix = "    "
		}

		// Print test cases as children
		for j, tc := range bySource[source] {
			isLastCase := j == len(bySource[source])-1

			connector := "├── "
			casePrefix := filePrefix + "│   "
			if isLastCase {
				connector = "└── "
				casePrefix = filePrefix + "    "
			}

			label := tc.ID
			if tc.Title != "" {
				label += ": " + tc.Title
			}
			if tc.Priority != domain.PriorityNormal {
				label += " [" + tc.Priority.String() + "]"
			}

			failMarker := ""
			if len(failedIDs) > 0 {
				if _, ok := failedIDs[tc.ID]; ok {
					failMarker = " " + color.RedString("[F]")
				}
			}

			fmt.Printf("%s%s%s\n", filePrefix+connector, color.YellowString(label), failMarker)

			// Print steps as grandchildren
			if showSteps {
				for k, step := range tc.Steps {
					stepConnector := "├── "
					if k == len(tc.Steps)-1 {
						stepConnector = "└── "
					}
					fmt.Printf("%s%s%d. %s\n", casePrefix, stepConnector, step.Index, step.Description)
				}
			}
		}

		// Add spacing between files (except for the last one)
		if i < len(sources)-1 {
			fmt.Println()
		}
	}
}
