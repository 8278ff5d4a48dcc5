package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"feedherald/internal/domain"
	"feedherald/internal/feed"
)

const (
	bannedText    = "Command is off limits to banned users."
	ownerOnlyText = "Only the bot owner can do that."
	failedText    = "Something went wrong. Please try again later."

	subscribeUsageText = "Please enter an author to subscribe to." +
		" Alternatively, use !help for help."
	unsubscribeUsageText = "Please enter an author to unsubscribe from." +
		" Alternatively, use !help for help."
	banUsageText   = "Enter a Discord user to ban."
	unbanUsageText = "Enter a Discord user to unban."
)

type request struct {
	UserID     string
	Username   string
	Args       []string
	MentionIDs []string
}

// arg returns the first command argument, preferring a mentioned user for
// the moderation commands.
func (r request) arg() string {
	if len(r.MentionIDs) > 0 {
		return r.MentionIDs[0]
	}
	if len(r.Args) > 1 {
		return strings.TrimSpace(r.Args[1])
	}

	return ""
}

type response struct {
	Text  string
	Embed *discordgo.MessageEmbed
}

func textResponse(format string, args ...any) *response {
	return &response{Text: fmt.Sprintf(format, args...)}
}

// dispatch routes one command and always produces the single reply for it.
// Failures end in a user-visible reply too; the returned error is for the
// log only and never reaches the Discord event loop.
func (b *Bot) dispatch(ctx context.Context, req request) (*response, error) {
	switch req.Args[0] {
	case "!help":
		return &response{Embed: helpEmbed()}, nil
	case "!list":
		return b.handleList(ctx, req)
	}

	// No mutating command for banned users past this point.
	banned, err := b.guard.IsBanned(ctx, req.UserID)
	if err != nil {
		return textResponse(failedText), fmt.Errorf("check ban list: %w", err)
	}
	if banned {
		b.audit(ctx, req, "DENIED BANNED")

		return textResponse(bannedText), nil
	}

	switch req.Args[0] {
	case "!subscribe":
		return b.handleSubscribe(ctx, req)
	case "!unsubscribe":
		return b.handleUnsubscribe(ctx, req)
	case "!ban":
		return b.handleBan(ctx, req)
	case "!unban":
		return b.handleUnban(ctx, req)
	case "!exit":
		return b.handleExit(ctx, req)
	}

	return nil, nil
}

func (b *Bot) handleList(ctx context.Context, req request) (*response, error) {
	sources, err := b.store.ListSources(ctx)
	if err != nil {
		return textResponse(failedText), fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		return textResponse("No subscriptions yet. Use !subscribe <author> to add one."), nil
	}

	var msg strings.Builder
	msg.WriteString("Subscriptions:\n")
	for _, src := range sources {
		msg.WriteString(fmt.Sprintf("%s // %s\n", src.Name, src.Subdomain))
	}

	b.audit(ctx, req, "SUCCESS")

	return &response{Text: msg.String()}, nil
}

func (b *Bot) handleSubscribe(ctx context.Context, req request) (*response, error) {
	arg := req.arg()
	if arg == "" {
		b.audit(ctx, req, "BADLY FORMED ARGUMENT")

		return textResponse(subscribeUsageText), nil
	}

	src, err := b.subs.Subscribe(ctx, arg)

	switch {
	case err == nil:
		b.audit(ctx, req, "SUCCESS")

		return textResponse("Subscribed to %s.", src.Name), nil

	case errors.Is(err, domain.ErrDuplicateSource):
		b.audit(ctx, req, "DUPLICATE")

		return textResponse("Already subscribed to %s.", b.sourceName(ctx, arg)), nil

	case errors.Is(err, domain.ErrSourceNotFound):
		b.audit(ctx, req, "BAD REQUEST")

		return textResponse(
			"Unable to find author '%s' on Substack. Are you sure this is a subdomain?",
			arg,
		), nil

	default:
		b.audit(ctx, req, "ERROR")

		return textResponse(failedText), fmt.Errorf("subscribe: %w", err)
	}
}

func (b *Bot) handleUnsubscribe(ctx context.Context, req request) (*response, error) {
	arg := req.arg()
	if arg == "" {
		b.audit(ctx, req, "BADLY FORMED ARGUMENT")

		return textResponse(unsubscribeUsageText), nil
	}

	src, err := b.subs.Unsubscribe(ctx, arg)

	switch {
	case err == nil:
		b.audit(ctx, req, "SUCCESS")

		return textResponse("Unsubscribed from %s.", src.Name), nil

	case errors.Is(err, domain.ErrUnknownSource):
		b.audit(ctx, req, "BAD REQUEST")

		return textResponse("No subscription to '%s' found.", arg), nil

	default:
		b.audit(ctx, req, "ERROR")

		return textResponse(failedText), fmt.Errorf("unsubscribe: %w", err)
	}
}

func (b *Bot) handleBan(ctx context.Context, req request) (*response, error) {
	if !b.guard.IsOwner(req.UserID) {
		b.audit(ctx, req, "DENIED NOT OWNER")

		return textResponse(ownerOnlyText), nil
	}

	target := req.arg()
	if target == "" {
		b.audit(ctx, req, "BADLY FORMED ARGUMENT")

		return textResponse(banUsageText), nil
	}

	err := b.store.BanUser(ctx, target)

	switch {
	case err == nil:
		b.audit(ctx, req, "SUCCESS")

		return textResponse("Added %s to list of banned users.", target), nil

	case errors.Is(err, domain.ErrAlreadyBanned):
		b.audit(ctx, req, "DUPLICATE")

		return textResponse("%s is already banned.", target), nil

	default:
		b.audit(ctx, req, "ERROR")

		return textResponse(failedText), fmt.Errorf("ban user: %w", err)
	}
}

func (b *Bot) handleUnban(ctx context.Context, req request) (*response, error) {
	if !b.guard.IsOwner(req.UserID) {
		b.audit(ctx, req, "DENIED NOT OWNER")

		return textResponse(ownerOnlyText), nil
	}

	target := req.arg()
	if target == "" {
		b.audit(ctx, req, "BADLY FORMED ARGUMENT")

		return textResponse(unbanUsageText), nil
	}

	err := b.store.UnbanUser(ctx, target)

	switch {
	case err == nil:
		b.audit(ctx, req, "SUCCESS")

		return textResponse("Removed %s from list of banned users.", target), nil

	case errors.Is(err, domain.ErrNotBanned):
		b.audit(ctx, req, "BAD REQUEST")

		return textResponse("%s is not banned.", target), nil

	default:
		b.audit(ctx, req, "ERROR")

		return textResponse(failedText), fmt.Errorf("unban user: %w", err)
	}
}

func (b *Bot) handleExit(ctx context.Context, req request) (*response, error) {
	if !b.guard.IsOwner(req.UserID) {
		b.audit(ctx, req, "DENIED NOT OWNER")

		return textResponse(ownerOnlyText), nil
	}

	b.audit(ctx, req, "SUCCESS")
	b.requestExit()

	return textResponse("Shutting down."), nil
}

// sourceName resolves a display name for replies about an existing source,
// falling back to the raw argument.
func (b *Bot) sourceName(ctx context.Context, arg string) string {
	subdomain, err := feed.SubdomainFromInput(arg)
	if err != nil {
		return arg
	}

	src, err := b.store.GetSource(ctx, subdomain)
	if err != nil || src == nil {
		return arg
	}

	return src.Name
}

func (b *Bot) audit(ctx context.Context, req request, outcome string) {
	b.log.InfoContext(ctx, "Command handled",
		"userID", req.UserID,
		"username", req.Username,
		"command", strings.Join(req.Args, " "),
		"outcome", outcome)
}
