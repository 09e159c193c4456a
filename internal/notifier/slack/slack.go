// Package slack announces decided matches to a Slack channel using Block
// Kit scorecards.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/nholm/arrowsync/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the
// slack.Client that we use. This allows for easy mocking in tests.
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

// NewNotifierWithAPI creates a new Notifier with a specific client
// instance. Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
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
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendMatchDecided posts the final scorecard for a decided match.
func (s *Notifier) SendMatchDecided(result *notifier.MatchResult, dryRun bool) error {
	msg := s.formatMatchDecided(result)
	return s.sendMessage(msg, dryRun)
}

func sideLabel(names []string) string {
	if len(names) == 0 {
		return "?"
	}
	label := names[0]
	for _, n := range names[1:] {
		label += " / " + n
	}
	return label
}

// formatMatchDecided creates the Slack message for a decided match using
// Block Kit.
func (s *Notifier) formatMatchDecided(result *notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏹 Match decided! 🏹", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	labelA := sideLabel(result.SideA)
	labelB := sideLabel(result.SideB)
	winner := labelA
	if result.Winner == match.SideB {
		winner = labelB
	}
	summary := fmt.Sprintf("%s def. %s\nSet points: %d - %d", winner, loserLabel(result, labelA, labelB), result.PointsA, result.PointsB)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", summary, true, false), nil, nil))

	scorecard := ""
	for _, line := range result.Sets {
		scorecard += fmt.Sprintf("Set %d: %d - %d\n", line.Number, line.TotalA, line.TotalB)
	}
	if result.ShootOff != nil {
		scorecard += fmt.Sprintf("Shoot-off: %d - %d\n", result.ShootOff.TotalA, result.ShootOff.TotalB)
	}
	if scorecard != "" {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", scorecard, true, false), nil, nil))
	}

	var contextElements []slack.MixedElement
	if result.ByJudge {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "Decided by judge call", true, false))
	}
	contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match %s (%s)", result.MatchID, result.Kind), true, false))
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}

func loserLabel(result *notifier.MatchResult, labelA, labelB string) string {
	if result.Winner == match.SideB {
		return labelA
	}
	return labelB
}
