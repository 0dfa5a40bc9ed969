package components

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// BalanceChart draws a column chart of year-end balances, one column per
// year, scaled to the tallest column.
type BalanceChart struct {
	Title  string
	Values []decimal.Decimal
	Labels []string // first and last are shown under the axis
	Height int
}

func NewBalanceChart(title string, values []decimal.Decimal) *BalanceChart {
	return &BalanceChart{Title: title, Values: values, Height: 6}
}

func (c *BalanceChart) WithLabels(labels []string) *BalanceChart {
	c.Labels = labels
	return c
}

// levels converts each value to a height in eighths of a row.
func (c *BalanceChart) levels() []int {
	maxValue := decimal.Zero
	for _, v := range c.Values {
		maxValue = decimal.Max(maxValue, v)
	}
	out := make([]int, len(c.Values))
	if !maxValue.IsPositive() {
		return out
	}
	total := decimal.NewFromInt(int64(c.Height * len(blocks)))
	for i, v := range c.Values {
		if v.IsPositive() {
			out[i] = int(v.Mul(total).Div(maxValue).Round(0).IntPart())
		}
	}
	return out
}

func (c *BalanceChart) Render() string {
	if len(c.Values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(tuistyles.SectionStyle.Render(c.Title))
		b.WriteString("\n")
	}

	levels := c.levels()
	per := len(blocks)
	for row := c.Height - 1; row >= 0; row-- {
		var line strings.Builder
		for _, lvl := range levels {
			fill := lvl - row*per
			switch {
			case fill >= per:
				line.WriteRune(blocks[per-1])
			case fill > 0:
				line.WriteRune(blocks[fill-1])
			default:
				line.WriteRune(' ')
			}
		}
		b.WriteString(tuistyles.ChartBarStyle.Render(line.String()))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", len(levels)))
	if len(c.Labels) > 0 {
		first, last := c.Labels[0], c.Labels[len(c.Labels)-1]
		gap := len(levels) - len(first) - len(last)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(fmt.Sprintf("\n%s%s%s", first, strings.Repeat(" ", gap), last))
	}
	return b.String()
}
