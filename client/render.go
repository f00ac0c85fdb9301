package client

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const excerptRunes = 150

func formatDate(t time.Time) string {
	return t.Local().Format("2006년 1월 2일 15:04")
}

// RenderArticle writes a full article: title, byline, optional image and the
// body with one paragraph per line of content.
func RenderArticle(w io.Writer, a Article) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", a.Title)
	fmt.Fprintf(&b, "기자: %s · %s", a.AuthorName, formatDate(a.CreatedAt))
	if a.CategoryName != "" {
		fmt.Fprintf(&b, " · %s", a.CategoryName)
	}
	b.WriteString("\n")
	if a.ImageURL != "" {
		fmt.Fprintf(&b, "[이미지] %s\n", a.ImageURL)
	}
	for _, p := range strings.Split(a.Content, "\n") {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderArticleList writes one line per article followed by the page
// indicator.
func RenderArticleList(w io.Writer, page ArticlePage) error {
	var b strings.Builder
	if len(page.Articles) == 0 {
		b.WriteString("기사가 없습니다.\n")
	}
	for _, a := range page.Articles {
		fmt.Fprintf(&b, "[%d] %s\n", a.ID, a.Title)
		fmt.Fprintf(&b, "     %s\n", excerpt(a.Content))
		meta := []string{a.AuthorName, formatDate(a.CreatedAt)}
		if a.CategoryName != "" {
			meta = append(meta, a.CategoryName)
		}
		fmt.Fprintf(&b, "     %s\n", strings.Join(meta, " · "))
	}

	p := page.Pagination
	if p.Total > 0 {
		prev, next := " ", " "
		if p.HasPrev {
			prev = "<"
		}
		if p.HasNext {
			next = ">"
		}
		fmt.Fprintf(&b, "%s %d / %d %s\n", prev, p.Current, p.Total, next)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func excerpt(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if utf8.RuneCountInString(content) <= excerptRunes {
		return content
	}
	return string([]rune(content)[:excerptRunes]) + "..."
}
