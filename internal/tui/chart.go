package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmazeterm/tvmaze/internal/model"
)

var (
	barStyle         = lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue)
	selectedBarStyle = lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen)
)

// renderEpisodesChart draws one bar per season, height proportional to its
// episode count. The selected season is highlighted.
func renderEpisodesChart(seasons []model.SeasonEpisodes, selected, width, height int) string {
	if len(seasons) == 0 || width < 4 || height < 2 {
		return ""
	}

	chartHeight := height - 1
	gap := 1
	barWidth := max(1, min(4, (width-gap*(len(seasons)-1))/len(seasons)))
	maxBars := max(1, (width+gap)/(barWidth+gap))
	start := 0
	if len(seasons) > maxBars {
		start = max(0, min(selected-maxBars/2, len(seasons)-maxBars))
	}
	visible := seasons[start:min(len(seasons), start+maxBars)]
	chartWidth := len(visible)*(barWidth+gap) - gap

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(gap),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)

	most := 0
	for i, se := range visible {
		style := barStyle
		if start+i == selected {
			style = selectedBarStyle
		}
		most = max(most, len(se.Episodes))
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: se.Season.Title(), Value: float64(len(se.Episodes)), Style: style},
			},
		})
	}
	bc.Draw()

	caption := fmt.Sprintf("episodes per season · S%d–S%d · max %d",
		visible[0].Season.Number, visible[len(visible)-1].Season.Number, most)
	return lipgloss.JoinVertical(lipgloss.Left,
		bc.View(),
		subtleStyle.Render(truncateStyled(caption, width)),
	)
}

func truncateStyled(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.TrimRight(s, " "))
}
