package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sprintpulse/internal/metrics"
	"sprintpulse/pkg/domain"
)

var (
	colorPrimary = lipgloss.Color("63")
	colorAccent  = lipgloss.Color("205")
	colorGood    = lipgloss.Color("42")
	colorWarn    = lipgloss.Color("214")
	colorBad     = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("244")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleH2    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleKey   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	styleGood  = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	styleWarn  = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	styleBad   = lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	stylePanel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
)

var blockStyles = map[domain.BlockType]lipgloss.Style{
	domain.BlockPlan:     lipgloss.NewStyle().Foreground(colorPrimary),
	domain.BlockAction:   lipgloss.NewStyle().Foreground(colorGood),
	domain.BlockBreakout: lipgloss.NewStyle().Foreground(colorAccent),
}

// tierStyle colours a score by its tier.
func tierStyle(tier metrics.TierName) lipgloss.Style {
	switch tier {
	case metrics.TierGood:
		return styleGood
	case metrics.TierWarn:
		return styleWarn
	default:
		return styleBad
	}
}

func labelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", styleKey.Render(label+":"), value)
}

func checkbox(done bool) string {
	if done {
		return styleGood.Render("[x]")
	}
	return styleMuted.Render("[ ]")
}

// scoreBar renders score (0..100) as a bar of width cells.
func scoreBar(score, width int) string {
	filled := min(max(score, 0), 100) * width / 100
	return strings.Repeat("█", filled) + styleMuted.Render(strings.Repeat("░", width-filled))
}

func blockStyle(b domain.BlockType) lipgloss.Style {
	if style, ok := blockStyles[b]; ok {
		return style
	}
	return styleMuted
}

func blockLabel(b domain.BlockType) string {
	return blockStyle(b).Render(string(b))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
