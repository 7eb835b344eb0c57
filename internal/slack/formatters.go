// Package slack renders facility state as Slack Block Kit messages for the
// queue slash command.
package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/slack-go/slack"
)

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(plain(text), nil, nil)
}

// FormatStatus shows every court and the queue with estimated waits.
func FormatStatus(st *rotation.State, now time.Time) slack.Message {
	blocks := []slack.Block{slack.NewHeaderBlock(plain("🎾 Court status"))}

	var courts []string
	for _, c := range st.Courts {
		sched, rented := st.CourtSchedules[c.ID]
		switch {
		case c.Active:
			courts = append(courts, fmt.Sprintf("Court %d: %s (%dm)", c.ID, strings.Join(c.Players, ", "), int(c.Elapsed(now).Minutes())))
		case rented && sched.Live(now):
			courts = append(courts, fmt.Sprintf("Court %d: rented by %s until %s", c.ID, sched.RentedBy, sched.UnavailableUntil.Format("15:04")))
		default:
			courts = append(courts, fmt.Sprintf("Court %d: free", c.ID))
		}
	}
	blocks = append(blocks, section(strings.Join(courts, "\n")))

	if len(st.Queue) == 0 {
		blocks = append(blocks, section("The queue is empty."))
		return slack.NewBlockMessage(blocks...)
	}
	lines := make([]string, 0, len(st.Queue))
	for i, e := range st.Queue {
		name := e.Name
		if e.IsGroup() {
			name = fmt.Sprintf("%s (%s)", e.Name, strings.Join(e.Players, ", "))
		}
		lines = append(lines, fmt.Sprintf("%d. %s · %s", i+1, name, rotation.FormatWait(st.EstimatedWait(i, now))))
	}
	blocks = append(blocks, section("Queue:\n"+strings.Join(lines, "\n")))
	return slack.NewBlockMessage(blocks...)
}

// FormatNextGame describes who would play next and where.
func FormatNextGame(p rotation.Preview) slack.Message {
	blocks := []slack.Block{slack.NewHeaderBlock(plain("⏭️ Up next"))}
	players := make([]string, len(p.Players))
	for i, name := range p.Players {
		players[i] = fmt.Sprintf("• %s (%s)", name, p.Skills[i])
	}
	blocks = append(blocks, section(strings.Join(players, "\n")))

	var context []slack.MixedElement
	context = append(context, plain(fmt.Sprintf("%s (%d)", rotation.MatchQualityLabel(p.Quality), p.Quality)))
	if p.CourtID != nil {
		context = append(context, plain(fmt.Sprintf("Court %d", *p.CourtID)))
	} else {
		context = append(context, plain("Waiting for a free court"))
	}
	if p.Teams != nil {
		context = append(context, plain(fmt.Sprintf("%s vs %s · %s",
			strings.Join(p.Teams.TeamA, " & "), strings.Join(p.Teams.TeamB, " & "),
			rotation.BalanceQuality(p.Teams.TeamAAvg, p.Teams.TeamBAvg))))
	}
	blocks = append(blocks, slack.NewContextBlock("", context...))
	return slack.NewBlockMessage(blocks...)
}

// FormatText is a one-section reply.
func FormatText(text string) slack.Message {
	return slack.NewBlockMessage(section(text))
}

// FormatUsage lists the supported subcommands.
func FormatUsage() slack.Message {
	return FormatText("Usage: /queue join <name> | leave <name> | next | status")
}
