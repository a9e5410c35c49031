// Package rss exposes a public feed of a user's recently read books.
package rss

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/shelfgraph/shelfgraph/internal/profile"
	"github.com/shelfgraph/shelfgraph/store"
)

const maxRSSItemCount = 100

type RSSService struct {
	Profile *profile.Profile
	Store   *store.Store

	markdown goldmark.Markdown
}

func NewRSSService(profile *profile.Profile, store *store.Store) *RSSService {
	return &RSSService{
		Profile:  profile,
		Store:    store,
		markdown: goldmark.New(),
	}
}

func (s *RSSService) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.GET("/u/:username/rss.xml", s.GetUserRSS)
}

// GetUserRSS serves the reading log of a user as an RSS feed. Only books
// with a read date appear, most recently read first.
func (s *RSSService) GetUserRSS(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	books, err := s.Store.ListBooks(ctx, &store.FindBook{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	read := make([]*store.Book, 0, len(books))
	for _, book := range books {
		if book.DateRead != nil && *book.DateRead != "" {
			read = append(read, book)
		}
	}
	sort.SliceStable(read, func(i, j int) bool {
		return *read[i].DateRead > *read[j].DateRead
	})
	if len(read) > maxRSSItemCount {
		read = read[:maxRSSItemCount]
	}

	baseURL := strings.TrimRight(s.Profile.InstanceURL, "/")
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s's reading log", displayName(user)),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/u/%s", baseURL, user.Username)},
		Description: "Recently read books",
		Created:     time.Now(),
	}

	for _, book := range read {
		item := &feeds.Item{
			Title:       itemTitle(book),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/books/%s", baseURL, book.UID)},
			Id:          fmt.Sprintf("%s/books/%s", baseURL, book.UID),
			Created:     time.Unix(book.CreatedTs, 0),
			Description: s.renderNotes(book.Notes),
		}
		if readAt, err := time.Parse("2006-01-02", *book.DateRead); err == nil {
			item.Created = readAt
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}

func (s *RSSService) renderNotes(notes string) string {
	if notes == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(notes), &buf); err != nil {
		return notes
	}
	return buf.String()
}

func itemTitle(book *store.Book) string {
	if len(book.Authors) == 0 {
		return book.Title
	}
	return fmt.Sprintf("%s by %s", book.Title, strings.Join(book.Authors, ", "))
}

func displayName(user *store.User) string {
	if user.Nickname != "" {
		return user.Nickname
	}
	return user.Username
}
