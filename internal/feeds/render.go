package feeds

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// RenderRSS produces an RSS 2.0 document for the channel and entries.
func RenderRSS(channel Channel, entries []Entry, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(channel.Link)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(channelTitle(channel))))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(channelDescription(channel))))
	if strings.TrimSpace(channel.Author) != "" {
		builder.WriteString(fmt.Sprintf("    <managingEditor>%s</managingEditor>\n", escapeXML(channel.Author)))
	}
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, entry := range entries {
		pub := entry.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(entry.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(entry.Link)))
		builder.WriteString(fmt.Sprintf(`      <guid isPermaLink="false">%s</guid>`+"\n", escapeXML(entry.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if description := entryDescription(entry); description != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(description)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

// RenderAtom produces an Atom document for the channel and entries.
func RenderAtom(channel Channel, entries []Entry, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(channel.Link)
	feedPath := strings.TrimPrefix(strings.TrimSpace(channel.FeedPath), "/")
	if feedPath == "" {
		feedPath = "feed.atom.xml"
	}
	feedID := fmt.Sprintf("%s/%s", baseLink, feedPath)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(feedID)))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(channelTitle(channel))))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", generatedAt.UTC().Format(time.RFC3339)))
	if strings.TrimSpace(channel.Author) != "" {
		builder.WriteString("  <author>\n")
		builder.WriteString(fmt.Sprintf("    <name>%s</name>\n", escapeXML(channel.Author)))
		builder.WriteString("  </author>\n")
	}
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(baseLink)))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(feedID)))
	for _, entry := range entries {
		updated := entry.UpdatedAt
		if updated.IsZero() {
			updated = entry.PublishedAt
		}
		if updated.IsZero() {
			updated = generatedAt
		}
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>urn:uuid:%s</id>\n", escapeXML(entry.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(entry.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXMLAttr(entry.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
		if !entry.PublishedAt.IsZero() {
			builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", entry.PublishedAt.UTC().Format(time.RFC3339)))
		}
		if entry.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(entry.Summary)))
		}
		if entry.Content != "" {
			builder.WriteString(fmt.Sprintf(`    <content type="html">%s</content>`+"\n", escapeXML(entry.Content)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

func channelTitle(channel Channel) string {
	if title := strings.TrimSpace(channel.Title); title != "" {
		return title
	}
	if base := strings.TrimSpace(channel.Link); base != "" {
		return base
	}
	return "Site Feed"
}

func channelDescription(channel Channel) string {
	if description := strings.TrimSpace(channel.Description); description != "" {
		return description
	}
	return "Latest updates"
}

func entryDescription(entry Entry) string {
	if entry.Content != "" {
		return entry.Content
	}
	return entry.Summary
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(value)
}
