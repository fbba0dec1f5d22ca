package notify

import (
	"fmt"
	"strings"

	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/format"
)

// BuildEscalationBlocks builds Slack Block Kit blocks for an escalated dispute.
// When link is non-empty a button pointing at the dispute is appended.
func BuildEscalationBlocks(d *domain.Dispute, link string) []slacklib.Block {
	header := slacklib.NewHeaderBlock(
		slacklib.NewTextBlockObject(slacklib.PlainTextType, "Litige escaladé", false, false),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "*Motif :* %s\n", d.Reason)
	fmt.Fprintf(&b, "*Client :* %s\n", orDash(d.ClientName))
	fmt.Fprintf(&b, "*Exécutant :* %s\n", orDash(d.ExecutantName))
	fmt.Fprintf(&b, "*Soumis le :* %s", format.Date(d.SubmittedAt))

	fields := []*slacklib.TextBlockObject{
		slacklib.NewTextBlockObject(slacklib.MarkdownType, "*Type*\n"+format.DisputeType(d.Type), false, false),
		slacklib.NewTextBlockObject(slacklib.MarkdownType, "*Priorité*\n"+format.DisputePriority(d.Priority), false, false),
	}
	section := slacklib.NewSectionBlock(
		slacklib.NewTextBlockObject(slacklib.MarkdownType, b.String(), false, false),
		fields,
		nil,
	)

	blocks := []slacklib.Block{header, section}
	if link == "" {
		return blocks
	}

	btn := slacklib.NewButtonBlockElement(
		"open_dispute",
		d.ID.String(),
		slacklib.NewTextBlockObject(slacklib.PlainTextType, "Ouvrir le litige", false, false),
	)
	btn.URL = link
	return append(blocks, slacklib.NewActionBlock("dispute_actions", btn))
}

// EscalationText is the fallback text for clients that do not render blocks.
func EscalationText(d *domain.Dispute) string {
	return fmt.Sprintf("Litige escaladé (%s) : %s", format.DisputePriority(d.Priority), d.Reason)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
