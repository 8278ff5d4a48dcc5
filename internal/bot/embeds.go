package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"feedherald/internal/announce"
)

const (
	colorGreen  = 0x00FF04
	colorPurple = 0xF613CD
)

func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       ">_",
		Description: "List of commands:",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Subscribe:",
				Value: "!subscribe <author>: Add subscription to author.",
			},
			{
				Name:  "Unsubscribe:",
				Value: "!unsubscribe <author>: Remove subscription to author.",
			},
			{
				Name:  "List:",
				Value: "!list: View a list of all current subscriptions.",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Remember to use the subdomain e.g. subdomain.substack.com.",
		},
	}
}

func articleEmbed(a announce.Announcement) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       a.SourceName,
		URL:         a.PageURL,
		Description: fmt.Sprintf("[%s](%s)", escapeLinkText(a.Title), a.URL),
		Color:       colorPurple,
		Footer: &discordgo.MessageEmbedFooter{
			Text: a.Published,
		},
	}

	if a.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: a.Thumbnail}
	}

	return embed
}
