package notifier

import (
	"context"
	"strconv"
	"strings"

	"StockWise/internal/dashboard"
)

// Commands maps chat commands onto the dashboard pipeline.
type Commands struct {
	Pipeline *dashboard.Pipeline
}

// Handle implements CommandHandler.
func (c *Commands) Handle(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	// Group chats address bots as /command@BotName.
	cmd, _, _ := strings.Cut(fields[0], "@")

	switch cmd {
	case "/forecast":
		if len(fields) != 3 {
			return "Usage: /forecast &lt;symbol&gt; &lt;years&gt;"
		}
		years, err := strconv.Atoi(fields[2])
		if err != nil {
			return "Usage: /forecast &lt;symbol&gt; &lt;years&gt;"
		}
		p, err := c.Pipeline.Run(ctx, dashboard.Selection{Symbol: fields[1], Years: years})
		if err != nil {
			return FormatError(err)
		}
		return FormatForecast(p)
	case "/symbols":
		return FormatSymbols(c.Pipeline.Catalog().Symbols())
	case "/start", "/help":
		return HelpText
	}
	return HelpText
}
