package quantnote

import (
	"context"
	"net/url"
	"strconv"
)

// FeedParams filters the social and news feeds. From is the inclusive
// lower bound; Tag narrows the feed to items tagged with one asset.
type FeedParams struct {
	From  string `param:"from" validate:"required,date"`
	Limit int    `param:"limit" validate:"required,min=1,max=500"`
	Tag   string `param:"tag"`
}

func fetchFeed[T any](ctx context.Context, c *Client, path string, p FeedParams) ([]T, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := c.setRangeQuery(q, p.From, ""); err != nil {
		return nil, err
	}
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Tag != "" {
		q.Set("tag", p.Tag)
	}
	var items []T
	if err := c.get(ctx, path, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetDiscordMessages lists tracked public Discord messages.
func (c *Client) GetDiscordMessages(ctx context.Context, p FeedParams) ([]DiscordMessage, error) {
	return fetchFeed[DiscordMessage](ctx, c, "discord", p)
}

// GetPublications lists tracked news publications.
func (c *Client) GetPublications(ctx context.Context, p FeedParams) ([]Publication, error) {
	return fetchFeed[Publication](ctx, c, "publications", p)
}

// GetRedditPosts lists tracked Reddit posts with their engagement stats.
func (c *Client) GetRedditPosts(ctx context.Context, p FeedParams) ([]RedditPost, error) {
	return fetchFeed[RedditPost](ctx, c, "reddit", p)
}

// GetTelegramMessages lists tracked public Telegram messages.
func (c *Client) GetTelegramMessages(ctx context.Context, p FeedParams) ([]TelegramMessage, error) {
	return fetchFeed[TelegramMessage](ctx, c, "telegram", p)
}

// GetTweets lists tracked tweets.
func (c *Client) GetTweets(ctx context.Context, p FeedParams) ([]Tweet, error) {
	return fetchFeed[Tweet](ctx, c, "twitter", p)
}
