package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"StockWise/internal/catalog"
	"StockWise/internal/collector"
	"StockWise/internal/dashboard"
	"StockWise/internal/forecast"
)

// FormatForecast renders a pipeline payload as a Telegram message.
func FormatForecast(p *dashboard.Payload) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s (%s)</b> | %s\n\n", html.EscapeString(p.Label), p.Symbol, dashboard.ForecastTitle(p.Years)))

	s := p.Summary
	b.WriteString(fmt.Sprintf("History: %s → %s (%d bars)\n", p.Start, s.LastDate, p.Series.Len()))
	b.WriteString(fmt.Sprintf("Last close: %.2f\n", s.LastClose))
	b.WriteString(fmt.Sprintf("52w range: %.2f – %.2f\n", s.Low52w, s.High52w))
	if s.SMA200 > 0 {
		dev := (s.LastClose - s.SMA200) / s.SMA200 * 100
		b.WriteString(fmt.Sprintf("MA200: %.2f (%+.1f%%)\n", s.SMA200, dev))
	}

	if last, ok := p.Result.Last(); ok {
		change := 0.0
		if s.LastClose > 0 {
			change = (last.YHat - s.LastClose) / s.LastClose * 100
		}
		b.WriteString(fmt.Sprintf("\n🔮 <b>%s forecast:</b> %.2f (%+.1f%%)\n", last.DS.Format("2006-01-02"), last.YHat, change))
		b.WriteString(fmt.Sprintf("   %.0f%% band: %.2f – %.2f\n", p.Result.IntervalWidth*100, last.YHatLower, last.YHatUpper))
	}

	b.WriteString("\n<pre>")
	b.WriteString(strings.Join(p.ForecastTail.Columns[:4], "  "))
	b.WriteString("\n")
	for _, row := range p.ForecastTail.Rows {
		b.WriteString(strings.Join(row[:4], "  "))
		b.WriteString("\n")
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatSymbols lists the catalog.
func FormatSymbols(symbols []catalog.Symbol) string {
	var b strings.Builder
	b.WriteString("<b>Available symbols:</b>\n")
	for _, s := range symbols {
		b.WriteString(fmt.Sprintf("• %s (%s)\n", html.EscapeString(s.Label), s.Ticker))
	}
	b.WriteString(fmt.Sprintf("\nHorizons: %v years", catalog.Years))
	return b.String()
}

// FormatError turns a pipeline error into a short user-facing reply.
func FormatError(err error) string {
	switch {
	case errors.Is(err, catalog.ErrUnsupportedSymbol):
		return "❌ Unsupported symbol. Send /symbols for the list."
	case errors.Is(err, catalog.ErrUnsupportedHorizon):
		return fmt.Sprintf("❌ Unsupported horizon. Choose one of %v years.", catalog.Years)
	case errors.Is(err, collector.ErrDataUnavailable):
		return "❌ No price data available for that symbol."
	case errors.Is(err, forecast.ErrInsufficientData):
		return "❌ Not enough history to fit a forecast."
	case collector.IsTransient(err):
		return "⚠️ Data provider unavailable, try again later."
	}
	return "❌ Forecast failed: " + html.EscapeString(err.Error())
}

// HelpText lists the bot commands.
const HelpText = "Commands:\n• /forecast &lt;symbol&gt; &lt;years&gt;\n• /symbols\n• /help"
