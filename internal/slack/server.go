package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

type Server struct {
	client          *Client
	commandHandler  *CommandHandler
	approvalHandler *ApprovalHandler
	importHandler   http.Handler
	signingSecret   string
}

func NewServer(client *Client, commandHandler *CommandHandler, approvalHandler *ApprovalHandler, importHandler http.Handler, signingSecret string) *Server {
	return &Server{
		client:          client,
		commandHandler:  commandHandler,
		approvalHandler: approvalHandler,
		importHandler:   importHandler,
		signingSecret:   signingSecret,
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logrus.WithError(err).Error("❌ Error reading body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Verify the request signature
	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		logrus.WithError(err).Error("❌ Error creating secrets verifier")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, err := sv.Write(body); err != nil {
		logrus.WithError(err).Error("❌ Error writing to verifier")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := sv.Ensure(); err != nil {
		logrus.WithError(err).Error("❌ Error verifying signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logrus.WithError(err).Error("❌ Error parsing event")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Handle URL verification challenge
	if eventsAPIEvent.Type == slackevents.URLVerification {
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			logrus.WithError(err).Error("❌ Error unmarshaling challenge")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text")
		w.Write([]byte(challenge.Challenge))
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		innerEvent := eventsAPIEvent.InnerEvent
		ctx := context.Background()

		switch ev := innerEvent.Data.(type) {
		case *slackevents.AppMentionEvent:
			if err := s.commandHandler.HandleAppMention(ctx, ev); err != nil {
				logrus.WithError(err).Error("❌ Error handling mention")
			}
		case *slackevents.ReactionAddedEvent:
			if err := s.approvalHandler.HandleReaction(ctx, ev); err != nil {
				logrus.WithError(err).Error("❌ Error handling reaction")
			}
		default:
			logrus.WithField("type", innerEvent.Type).Debug("Unsupported event type")
		}
	}

	w.WriteHeader(http.StatusOK)
}

// Start starts the Slack event server
func (s *Server) Start(port string) error {
	http.HandleFunc("/slack/events", s.handleEvents)
	http.HandleFunc("/health", s.healthCheck)
	if s.importHandler != nil {
		http.Handle("/items/import", s.importHandler)
	}

	logrus.WithField("port", port).Info("🚀 Slack server starting")
	return http.ListenAndServe(":"+port, nil)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
