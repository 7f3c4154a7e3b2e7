package notify

import (
	"fmt"
	"strings"

	"teammatch/internal/models"
)

// FormatMutualInterest builds the MarkdownV2 message sent to one participant about the other
func FormatMutualInterest(match *models.Match, teammate *models.Profile) string {
	var sb strings.Builder

	sb.WriteString("🤝 *It's a match\\!*\n\n")
	sb.WriteString(fmt.Sprintf("You and a teammate for hackathon *%s* are both interested\\.\n\n",
		EscapeMarkdown(match.HackathonID)))

	writeDetails(&sb, match, teammate)

	return sb.String()
}

// FormatProposal builds the MarkdownV2 message asking one participant to answer a proposal
func FormatProposal(match *models.Match, teammate *models.Profile) string {
	var sb strings.Builder

	sb.WriteString("👋 *New teammate suggestion*\n\n")
	sb.WriteString(fmt.Sprintf("Someone for hackathon *%s* could be a good fit\\. Are you interested?\n\n",
		EscapeMarkdown(match.HackathonID)))

	writeDetails(&sb, match, teammate)

	return sb.String()
}

func writeDetails(sb *strings.Builder, match *models.Match, teammate *models.Profile) {
	sb.WriteString(fmt.Sprintf("📊 *Score:* %s\n", EscapeMarkdown(formatScore(match.MatchScore))))

	if teammate != nil {
		if teammate.PreferredRole != nil && *teammate.PreferredRole != "" {
			sb.WriteString(fmt.Sprintf("🎯 *Role:* %s\n", EscapeMarkdown(*teammate.PreferredRole)))
		}
		if len(teammate.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("🛠 *Skills:* %s\n", EscapeMarkdown(strings.Join(teammate.Skills, ", "))))
		}
		if teammate.Availability != nil && *teammate.Availability != "" {
			sb.WriteString(fmt.Sprintf("⏰ *Availability:* %s\n", EscapeMarkdown(*teammate.Availability)))
		}
		if teammate.Bio != nil && *teammate.Bio != "" {
			sb.WriteString(fmt.Sprintf("\n%s\n", EscapeMarkdown(TruncateString(*teammate.Bio, 280))))
		}
		if teammate.GithubURL != nil && *teammate.GithubURL != "" {
			sb.WriteString(fmt.Sprintf("\n🔗 [Repository](%s)\n", escapeLinkURL(*teammate.GithubURL)))
		}
	}

	if len(match.Strengths) > 0 {
		sb.WriteString("\n✅ *Strengths*\n")
		for _, s := range match.Strengths {
			sb.WriteString(fmt.Sprintf("• %s\n", EscapeMarkdown(s)))
		}
	}

	if len(match.Considerations) > 0 {
		sb.WriteString("\n⚠️ *Considerations*\n")
		for _, c := range match.Considerations {
			sb.WriteString(fmt.Sprintf("• %s\n", EscapeMarkdown(c)))
		}
	}
}

func formatScore(score float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", score), ".0")
}

// EscapeMarkdown escapes special characters for Telegram MarkdownV2
func EscapeMarkdown(text string) string {
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)

	return replacer.Replace(text)
}

// inside (...) of an inline link only ) and \ must be escaped
func escapeLinkURL(url string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(url)
}

// TruncateString cuts s to at most maxLen runes, ending with an ellipsis when there is room
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
