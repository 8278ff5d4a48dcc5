package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"feedherald/internal/announce"
	"feedherald/internal/auth"
	"feedherald/internal/domain"
)

const messageProcessingTimeout = 60 * time.Second

// Store is the slice of the persistent store the command handlers need.
type Store interface {
	ListSources(ctx context.Context) ([]domain.Source, error)
	GetSource(ctx context.Context, subdomain string) (*domain.Source, error)
	BanUser(ctx context.Context, userID string) error
	UnbanUser(ctx context.Context, userID string) error
}

// Subscriptions is the subscribe path of the ingestion engine.
type Subscriptions interface {
	Subscribe(ctx context.Context, input string) (*domain.Source, error)
	Unsubscribe(ctx context.Context, input string) (*domain.Source, error)
}

// Bot is the Discord adapter: it receives commands from the channel,
// dispatches them, and delivers article announcements.
type Bot struct {
	session   *discordgo.Session
	channelID string
	store     Store
	subs      Subscriptions
	guard     *auth.Guard
	log       *slog.Logger

	channelReady atomic.Bool
	exitOnce     sync.Once
	exitCh       chan struct{}
}

func New(
	token string,
	channelID string,
	store Store,
	subs Subscriptions,
	guard *auth.Guard,
	log *slog.Logger,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		session:   session,
		channelID: channelID,
		store:     store,
		subs:      subs,
		guard:     guard,
		log:       log,
		exitCh:    make(chan struct{}),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)

	return b, nil
}

func (b *Bot) Start() error {
	return b.session.Open()
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

// ExitRequested is closed when the owner issues the shutdown command.
func (b *Bot) ExitRequested() <-chan struct{} {
	return b.exitCh
}

// ChannelReady reports whether the destination channel has been resolved.
func (b *Bot) ChannelReady() bool {
	return b.channelReady.Load()
}

// SendArticle delivers one announcement embed to the destination channel.
func (b *Bot) SendArticle(ctx context.Context, a announce.Announcement) error {
	_, err := b.session.ChannelMessageSendEmbed(b.channelID, articleEmbed(a), discordgo.WithContext(ctx))

	return err
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("Logged in",
		"username", r.User.Username)

	if _, err := s.Channel(b.channelID); err != nil {
		b.log.Error("Failed to resolve destination channel",
			"error", err,
			"channelID", b.channelID)

		return
	}

	b.channelReady.Store(true)
	b.log.Info("Connected to channel",
		"channelID", b.channelID)
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	text := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(text, "!") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), messageProcessingTimeout)
	defer cancel()

	req := request{
		UserID:   m.Author.ID,
		Username: m.Author.Username,
		Args:     strings.Fields(text),
	}
	for _, mention := range m.Mentions {
		if mention != nil {
			req.MentionIDs = append(req.MentionIDs, mention.ID)
		}
	}

	resp, err := b.dispatch(ctx, req)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to handle command",
			"error", err,
			"userID", m.Author.ID,
			"command", req.Args[0])
	}
	if resp == nil {
		return
	}

	if sendErr := b.reply(ctx, m.ChannelID, resp); sendErr != nil {
		b.log.ErrorContext(ctx, "Failed to send reply",
			"error", sendErr,
			"channelID", m.ChannelID,
			"userID", m.Author.ID,
			"command", req.Args[0])
	}
}

func (b *Bot) reply(ctx context.Context, channelID string, resp *response) error {
	if resp.Embed != nil {
		_, err := b.session.ChannelMessageSendEmbed(channelID, resp.Embed, discordgo.WithContext(ctx))

		return err
	}

	_, err := b.session.ChannelMessageSend(channelID, resp.Text, discordgo.WithContext(ctx))

	return err
}

func (b *Bot) requestExit() {
	b.exitOnce.Do(func() {
		close(b.exitCh)
	})
}
