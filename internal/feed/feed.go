// Package feed builds timeline records from RSS and Atom feeds.
package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/logger"
)

const defaultWorkers = 4

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]article.Record, error)
}

// BodyExtractor returns the readable body of the page at link.
type BodyExtractor interface {
	Extract(ctx context.Context, link string) (string, error)
}

type Options struct {
	// Extractor, when set, fills the article text of items whose feed entry
	// carries neither content nor description.
	Extractor BodyExtractor
	// Workers bounds concurrent body fetches. Zero means 4.
	Workers int
	Log     logrus.FieldLogger
}

type RSSFetcher struct {
	parser *gofeed.Parser
	opts   Options
}

func NewRSSFetcher(opts Options) *RSSFetcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	return &RSSFetcher{parser: gofeed.NewParser(), opts: opts}
}

// Fetch returns one record per dated feed item. Values are left at zero;
// callers stack them once all feeds are merged.
func (f *RSSFetcher) Fetch(ctx context.Context, url string) ([]article.Record, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	records := itemRecords(feed, f.opts.Log.WithField("feed", url))
	if f.opts.Extractor != nil {
		if err := f.fillBodies(ctx, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func itemRecords(feed *gofeed.Feed, log logrus.FieldLogger) []article.Record {
	records := make([]article.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		var rec article.Record
		switch {
		case item.PublishedParsed != nil:
			rec.Date = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			rec.Date = item.UpdatedParsed.UTC()
		default:
			log.WithField("link", item.Link).Warn("skipping undated item")
			continue
		}

		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		rec.Title = strings.TrimSpace(item.Title)
		rec.Link = strings.TrimSpace(item.Link)
		rec.Article = body
		records = append(records, rec)
	}
	return records
}

func (f *RSSFetcher) fillBodies(ctx context.Context, records []article.Record) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Workers)
	for i := range records {
		if strings.TrimSpace(records[i].Article) != "" || records[i].Link == "" {
			continue
		}
		i := i
		g.Go(func() error {
			body, err := f.opts.Extractor.Extract(ctx, records[i].Link)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				f.opts.Log.WithError(err).WithField("link", records[i].Link).Warn("body extraction failed")
				return nil
			}
			records[i].Article = body
			return nil
		})
	}
	return g.Wait()
}

type FetchResult struct {
	Records []article.Record
	Errors  []error
}

// FetchAll fetches every feed concurrently and merges the records, values
// still unset. A failing feed is reported in Errors and does not stop the
// others. Callers drop invalid records before stacking the survivors with
// article.AssignStack.
func FetchAll(ctx context.Context, fetcher Fetcher, urls []string) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			records, err := fetcher.Fetch(ctx, u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Records = append(result.Records, records...)
		}(u)
	}

	wg.Wait()
	return result
}
