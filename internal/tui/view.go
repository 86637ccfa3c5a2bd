package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/clearsheet/clearsheet/internal/ledger"
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")

	switch a.tab {
	case tabDashboard:
		b.WriteString(a.renderDashboard())
	case tabTransactions:
		b.WriteString(a.renderTransactions())
	case tabAnalytics:
		b.WriteString(a.renderAnalytics())
	default:
		b.WriteString(a.renderSettings())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusLine())
	return b.String()
}

func (a *App) renderHeader() string {
	parts := make([]string, 0, int(tabCount)+1)
	parts = append(parts, titleStyle.Render("ClearSheet"))
	for t := tabID(0); t < tabCount; t++ {
		if t == a.tab {
			parts = append(parts, activeTabStyle.Render(t.String()))
		} else {
			parts = append(parts, tabStyle.Render(t.String()))
		}
	}
	if a.ready {
		parts = append(parts, mutedStyle.Render(a.view.Sheet.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (a *App) renderDashboard() string {
	if a.mode == modeNewSheet || a.mode == modeRenameSheet {
		prompt := "New sheet"
		if a.mode == modeRenameSheet {
			prompt = "Rename sheet"
		}
		return sectionTitleStyle.Render(prompt) + "\n" +
			mutedStyle.Render("name: ") + a.input.View() + "\n\n" +
			mutedStyle.Render("enter to save, esc to cancel")
	}
	if !a.ready {
		return mutedStyle.Render("loading…")
	}
	items := a.mut.Items()
	totals := ledger.Aggregate(items, a.view.InitialBalance)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderCard("Income", incomeStyle, totals.Income),
		" ",
		a.renderCard("Expense", expenseStyle, totals.Expense),
		" ",
		a.renderCard("Balance", titleStyle, totals.Balance),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(a.renderBankGroups(items))
	b.WriteString("\n")
	b.WriteString(a.renderTrend(items))
	return b.String()
}

func (a *App) renderCard(label string, valueStyle lipgloss.Style, v decimal.Decimal) string {
	body := cardLabelStyle.Render(label) + "\n" + valueStyle.Render(a.fmtMoney(v))
	return cardStyle.Render(body)
}

func (a *App) renderBankGroups(items []ledger.Item) string {
	groups := ledger.GroupByBank(items, a.registry.Resolve, a.filters.DateStart, a.filters.DateEnd)
	if len(groups) == 0 {
		return mutedStyle.Render("no bank activity")
	}
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Banks"))
	b.WriteString("\n")
	for _, g := range groups {
		icon := ""
		if d, ok := a.registry.Lookup(g.Key); ok {
			icon = d.Icon + " "
		}
		net := g.Net()
		style := incomeStyle
		if net.IsNegative() {
			style = expenseStyle
		}
		line := fmt.Sprintf("%s%-22s %s", icon, a.registry.Title(g.Key), style.Render(a.fmtMoney(net)))
		b.WriteString("  " + line + "\n")
	}
	return sectionStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// sparkRunes maps a 0..1 magnitude to a block glyph.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func (a *App) renderTrend(items []ledger.Item) string {
	buckets := ledger.TrendBuckets(items)
	if len(buckets) == 0 {
		return ""
	}
	max := decimal.Zero
	for _, bk := range buckets {
		if bk.Expense.Cmp(max) > 0 {
			max = bk.Expense
		}
	}
	var spark strings.Builder
	for _, bk := range buckets {
		idx := 0
		if max.IsPositive() {
			ratio, _ := bk.Expense.Div(max).Float64()
			idx = int(ratio * float64(len(sparkRunes)-1))
		}
		spark.WriteRune(sparkRunes[idx])
	}
	label := fmt.Sprintf("%s … %s", buckets[0].Label, buckets[len(buckets)-1].Label)
	body := sectionTitleStyle.Render("Spending trend") + "\n  " +
		expenseStyle.Render(spark.String()) + "\n  " + mutedStyle.Render(label)
	return sectionStyle.Render(body)
}

func (a *App) renderTransactions() string {
	if !a.ready {
		return mutedStyle.Render("loading…")
	}
	var b strings.Builder

	if a.mode == modeSearch || a.filters.Search != "" {
		b.WriteString(mutedStyle.Render("search: "))
		if a.mode == modeSearch {
			b.WriteString(a.input.View())
		} else {
			b.WriteString(a.filters.Search)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.renderFilterLine())
	b.WriteString("\n")

	if a.mode == modePickCategory || a.mode == modePickBank {
		return b.String() + a.renderPicker()
	}
	if a.mode == modeEditValue || a.mode == modeEditDesc || a.mode == modeEditDate {
		b.WriteString(mutedStyle.Render(a.input.Placeholder+": ") + a.input.View())
		b.WriteString("\n")
	}

	today := ledger.Today()
	header := fmt.Sprintf("   %-10s %-28s %-14s %-12s %12s  %s",
		"Date", "Description", "Category", "Bank", "Value", "")
	b.WriteString(mutedStyle.Render(header))
	b.WriteString("\n")

	if len(a.visible) == 0 {
		b.WriteString(mutedStyle.Render("   nothing to show"))
		b.WriteString("\n")
	}
	for i, it := range a.visible {
		b.WriteString(a.renderRow(i, it, today))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderRow(i int, it ledger.Item, today string) string {
	marker := " "
	key := it.Key()
	switch {
	case a.mut.Pending(key):
		marker = pendingStyle.Render("…")
	case a.mut.JustSaved(key):
		marker = savedStyle.Render("✓")
	}

	value := a.fmtMoney(it.Value)
	valueCell := fmt.Sprintf("%12s", value)
	if it.Type == ledger.Income {
		valueCell = incomeStyle.Render(valueCell)
	} else {
		valueCell = expenseStyle.Render(valueCell)
	}

	state := ""
	if it.Type == ledger.Expense {
		switch {
		case it.Paid():
			state = paidStyle.Render("pago")
		case it.IsOverdue(today):
			state = overdueStyle.Render("vencido")
		default:
			state = mutedStyle.Render("aberto")
		}
	}

	row := fmt.Sprintf("%s  %-10s %-28s %-14s %-12s %s  %s",
		marker,
		a.fmtDate(it.Date),
		truncate(it.Description, 28),
		truncate(it.CategoryName(), 14),
		truncate(it.BankName(), 12),
		valueCell,
		state,
	)
	if i == a.cursor && a.mode == modeNormal {
		return cursorRowStyle.Render(row)
	}
	return row
}

func (a *App) renderFilterLine() string {
	var parts []string
	if a.filters.Paid != ledger.PaidAny {
		parts = append(parts, "paid:"+string(a.filters.Paid))
	}
	if a.filters.Type != "" {
		parts = append(parts, "type:"+string(a.filters.Type))
	}
	parts = append(parts, fmt.Sprintf("sort:%s %s", a.filters.SortField, sortArrow(a.filters.SortAsc)))
	parts = append(parts, fmt.Sprintf("%d rows", len(a.visible)))
	return mutedStyle.Render(strings.Join(parts, "  "))
}

func sortArrow(asc bool) string {
	if asc {
		return "↑"
	}
	return "↓"
}

func (a *App) renderPicker() string {
	title := "Category"
	if a.mode == modePickBank {
		title = "Bank"
	}
	entries := a.pickerEntries()
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render(title))
	b.WriteString("\n")
	for i, e := range entries {
		line := "  " + e.label
		if i == a.pickIdx {
			line = cursorRowStyle.Render("> " + e.label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return sectionStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderAnalytics() string {
	if !a.ready {
		return mutedStyle.Render("loading…")
	}
	summaries := ledger.SummarizeCategories(a.mut.Items())
	if len(summaries) == 0 {
		return mutedStyle.Render("no movements")
	}
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("By category"))
	b.WriteString("\n")
	header := fmt.Sprintf("  %-20s %12s %12s %6s", "Category", "Expense", "Income", "Count")
	b.WriteString(mutedStyle.Render(header))
	b.WriteString("\n")
	for _, s := range summaries {
		name := s.Name
		if s.Icon != "" {
			name = s.Icon + " " + s.Name
		}
		b.WriteString(fmt.Sprintf("  %-20s %s %s %6d\n",
			truncate(name, 20),
			expenseStyle.Render(fmt.Sprintf("%12s", a.fmtMoney(s.Expense))),
			incomeStyle.Render(fmt.Sprintf("%12s", a.fmtMoney(s.Income))),
			s.Count,
		))
	}
	return b.String()
}

func (a *App) renderSettings() string {
	token := "not set"
	if a.cfg.HasPlausibleToken() {
		token = "set (" + fmt.Sprint(len(a.cfg.API.Token)) + " chars)"
	}
	lines := []string{
		sectionTitleStyle.Render("Settings"),
		"",
		"  api url    " + a.cfg.API.BaseURL,
		"  api token  " + token,
		"  theme      " + a.cfg.UI.Theme,
		"  currency   " + a.cfg.UI.CurrencySymbol,
		"",
		mutedStyle.Render("  edit the config file or CLEARSHEET_* env vars to change these"),
		mutedStyle.Render("  L logs out and clears the stored token"),
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStatusLine() string {
	left := a.status
	if a.loading {
		left = "loading…"
	}
	style := statusStyle
	switch a.statusLvl {
	case statusWarn:
		style = warningStyle
	case statusError:
		style = errorStyle
	}
	footer := ""
	if a.tab != tabTransactions {
		footer = "  " + a.renderFooter()
	}
	return style.Render(left) + footer
}

func (a *App) renderFooter() string {
	bindings := a.keys.footerBindings(a.tab)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

// fmtMoney renders a decimal with the configured currency symbol and two
// fraction digits.
func (a *App) fmtMoney(v decimal.Decimal) string {
	symbol := a.cfg.UI.CurrencySymbol
	if symbol == "" {
		symbol = "R$"
	}
	return symbol + " " + v.StringFixed(2)
}

// fmtDate reformats a canonical date for display; unparseable input is
// shown as-is.
func (a *App) fmtDate(date string) string {
	if date == "" {
		return "—"
	}
	layout := a.cfg.UI.DateFormat
	if layout == "" {
		return date
	}
	t, err := time.Parse(ledger.ISO, date)
	if err != nil {
		return date
	}
	return t.Format(layout)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
