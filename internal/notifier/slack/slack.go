package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mauv0809/fairway-ledger/internal/export"
	"github.com/mauv0809/fairway-ledger/internal/metrics"
	"github.com/mauv0809/fairway-ledger/internal/notifier"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendSettlementNotification posts the headline result of a settled round.
func (s *Notifier) SendSettlementNotification(round *rounds.Round, dryRun bool) error {
	msg := s.formatSettlementNotification(round)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendPointsBankLog posts the hole-by-hole points-bank log of a round.
func (s *Notifier) SendPointsBankLog(round *rounds.Round, dryRun bool) error {
	if round.Settlement == nil || len(round.Settlement.HoleLogs) == 0 {
		return nil
	}
	msg := s.formatPointsBankLog(round)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard posts a leaderboard table to the channel.
func (s *Notifier) SendLeaderboard(table export.Table, dryRun bool) error {
	msg := s.formatLeaderboard(table)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(table export.Table) (any, error) {
	return s.formatLeaderboard(table), nil
}

// formatSettlementNotification creates the Slack message for a settled round using Block Kit.
func (s *Notifier) formatSettlementNotification(round *rounds.Round) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⛳ Round settled!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Course: %s (%s / %s)\nFormat: %s", round.CourseName, round.FrontArea, round.BackArea, round.Format)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	settlement := round.Settlement
	if settlement == nil {
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	if settlement.GrossChampion != "" {
		lines = append(lines, fmt.Sprintf("🏆 Gross champion: %s", settlement.GrossChampion))
	}
	if settlement.GrossRunnerUp != "" {
		lines = append(lines, fmt.Sprintf("🥈 Gross runner-up: %s", settlement.GrossRunnerUp))
	}
	if settlement.NetChampion != "" {
		lines = append(lines, fmt.Sprintf("🏆 Net champion: %s", settlement.NetChampion))
	}
	if settlement.NetRunnerUp != "" {
		lines = append(lines, fmt.Sprintf("🥈 Net runner-up: %s", settlement.NetRunnerUp))
	}
	for _, entry := range round.Entries {
		if amount, ok := settlement.Earnings[entry.Name]; ok {
			tracker := settlement.Trackers[entry.Name]
			lines = append(lines, fmt.Sprintf("• %s: %+d (W%d L%d T%d)", entry.Name, amount, tracker.Win, tracker.Lose, tracker.Tie))
		}
	}
	if len(settlement.Birdies) > 0 {
		birdies := make([]string, 0, len(settlement.Birdies))
		for _, b := range settlement.Birdies {
			birdies = append(birdies, fmt.Sprintf("%s (hole %d)", b.Player, b.Hole))
		}
		lines = append(lines, "🐦 Birdies: "+strings.Join(birdies, ", "))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPointsBankLog creates the Slack message with the hole-by-hole log lines.
func (s *Notifier) formatPointsBankLog(round *rounds.Round) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "💰 Points bank — hole by hole", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	logText := strings.Join(round.Settlement.HoleLogs, "\n")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", logText, true, false), nil, nil))

	var standings []string
	for _, entry := range round.Entries {
		points := round.Settlement.RunningPoints[entry.Name]
		title := round.Settlement.Titles[entry.Name]
		line := fmt.Sprintf("• %s: %d point(s)", entry.Name, points)
		if title != "" && title != "none" {
			line += fmt.Sprintf(" [%s]", title)
		}
		standings = append(standings, line)
	}
	if len(standings) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(standings, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard renders an export table as a fixed-order text block.
func (s *Notifier) formatLeaderboard(table export.Table) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📊 Leaderboard", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	lines := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		parts := make([]string, 0, len(row))
		for i, value := range row {
			if value == "" {
				continue
			}
			if i == 0 {
				parts = append(parts, value)
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %s", table.Columns[i], value))
		}
		lines = append(lines, "• "+strings.Join(parts, " | "))
	}
	if len(lines) == 0 {
		lines = append(lines, "No players on the leaderboard yet.")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
