package email

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"coaching-backend/internal/models"
)

// Raw HTML in the markdown (e.g. a client name containing tags) is escaped
// because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Digest is a rendered daily summary email.
type Digest struct {
	Subject  string
	Markdown string
	HTML     string
}

// RenderDigest summarises one daily run for a tenant. baseURL prefixes the
// panel routes in action links; it may be empty.
func RenderDigest(t models.Tenant, runs []models.DailyRun, baseURL string, now time.Time) (Digest, error) {
	var expiryItems, checkItems []models.Notification
	seen := map[string]bool{}
	for _, run := range runs {
		expiryItems = appendUnique(expiryItems, run.ExpiryNotifications, seen)
		checkItems = appendUnique(checkItems, run.CheckInReminders, seen)
	}

	name := t.Name
	if name == "" {
		name = t.ID
	}
	total := len(expiryItems) + len(checkItems)

	var md strings.Builder
	fmt.Fprintf(&md, "# %s: daily client report\n\n", name)
	fmt.Fprintf(&md, "%s. %d item(s) need attention.\n\n", now.Format("Monday 2 January 2006"), total)

	if len(expiryItems) > 0 {
		md.WriteString("## Subscriptions\n\n")
		for _, n := range expiryItems {
			writeItem(&md, n, baseURL)
		}
		md.WriteString("\n")
	}
	if len(checkItems) > 0 {
		md.WriteString("## Check-ins\n\n")
		for _, n := range checkItems {
			writeItem(&md, n, baseURL)
		}
		md.WriteString("\n")
	}
	if total == 0 {
		md.WriteString("Nothing to report today.\n")
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md.String()), &buf); err != nil {
		return Digest{}, fmt.Errorf("render digest: %w", err)
	}

	return Digest{
		Subject:  fmt.Sprintf("[%s] %d client alert(s) for %s", name, total, now.Format("2 Jan")),
		Markdown: md.String(),
		HTML:     buf.String(),
	}, nil
}

// appendUnique adds notifications whose (type, client) pair has not been
// seen yet. Several admins of one tenant receive the same alerts.
func appendUnique(dst, src []models.Notification, seen map[string]bool) []models.Notification {
	for _, n := range src {
		key := n.Type + "/" + n.ClientID
		if seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, n)
	}
	return dst
}

func writeItem(md *strings.Builder, n models.Notification, baseURL string) {
	fmt.Fprintf(md, "- **%s**: %s", escapeMarkdown(n.Title), escapeMarkdown(n.Message))
	if n.ActionURL != "" {
		fmt.Fprintf(md, " ([open](%s%s))", strings.TrimSuffix(baseURL, "/"), n.ActionURL)
	}
	md.WriteString("\n")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "#", `\#`,
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
