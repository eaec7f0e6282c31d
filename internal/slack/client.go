package slack

import (
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

type Client struct {
	api   *slack.Client
	botID string
}

func NewClient(token string) (*Client, error) {
	api := slack.New(token)

	authTest, err := api.AuthTest()
	if err != nil {
		return nil, err
	}
	logrus.WithField("bot_id", authTest.UserID).Info("✅ Slack authenticated")

	return &Client{
		api:   api,
		botID: authTest.UserID,
	}, nil
}

func (c *Client) GetBotID() string {
	return c.botID
}

func (c *Client) SendMessage(channelID, message string) error {
	_, _, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
	)
	return err
}

// PostReviewMessage sends a message and returns its timestamp so the
// approval handler can match reactions back to it.
func (c *Client) PostReviewMessage(channelID, message string) (string, error) {
	_, ts, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
	)
	return ts, err
}

func (c *Client) SendMessageWithBlocks(channelID string, blocks []slack.Block) error {
	_, _, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionBlocks(blocks...),
	)
	return err
}
