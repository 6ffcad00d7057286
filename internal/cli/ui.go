package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette, loosely themed after the tree views the commands render:
// foliage greens for the happy path, bark tones for the quiet parts.
var (
	colorLeaf   = lipgloss.Color("42")  // fresh leaf - primary accent
	colorMoss   = lipgloss.Color("65")  // moss green - success
	colorAmber  = lipgloss.Color("214") // autumn amber - warnings
	colorRust   = lipgloss.Color("131") // rust - errors
	colorBirch  = lipgloss.Color("255") // birch white - values
	colorBark   = lipgloss.Color("245") // bark gray - secondary text
	colorShadow = lipgloss.Color("240") // understory - muted text
)

// Styles shared across commands.
var (
	// StyleTitle for headings such as the explorer banner.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorLeaf)

	// StyleHighlight for the value the user should look at.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorBirch)

	// StyleDim for secondary text: paths, hints, key legends.
	StyleDim = lipgloss.NewStyle().Foreground(colorShadow)

	// StyleWarning for transient problems surfaced in the UI.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorMoss)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRust)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorBark)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorLeaf)
)

// Status glyphs prefixed to command output lines.
const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "·"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented follow-up line under a status message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}
