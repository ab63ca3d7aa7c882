// Package notify is the change-notification feed: mutations publish
// "table X changed" events and the data layer reacts by discarding its
// cached reads. Payloads carry only the table name; subscribers act on
// the fact of change, never its contents.
package notify

import (
	"context"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "pos:changes:"

// Table names used across the feed.
const (
	TableMenuItems  = "menu_items"
	TableCategories = "categories"
	TableBills      = "bills"
	TableBillItems  = "bill_items"
)

type Feed interface {
	// Publish announces that rows in table changed.
	Publish(ctx context.Context, table string) error
	// Subscribe returns a channel of table names plus a cancel func.
	Subscribe(ctx context.Context, tables ...string) (<-chan string, func())
}

// RedisFeed broadcasts change events over redis pub/sub so every
// running terminal invalidates, not just the one that wrote.
type RedisFeed struct {
	rdb *redis.Client
}

func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

func (f *RedisFeed) Publish(ctx context.Context, table string) error {
	return f.rdb.Publish(ctx, channelPrefix+table, table).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, tables ...string) (<-chan string, func()) {
	channels := make([]string, len(tables))
	for i, table := range tables {
		channels[i] = channelPrefix + table
	}

	pubsub := f.rdb.Subscribe(ctx, channels...)
	out := make(chan string)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- strings.TrimPrefix(msg.Channel, channelPrefix):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }
}

// MemoryFeed is an in-process feed for tests.
type MemoryFeed struct {
	mu   sync.Mutex
	subs []memorySub
}

type memorySub struct {
	tables map[string]bool
	ch     chan string
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{}
}

func (f *MemoryFeed) Publish(ctx context.Context, table string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.tables[table] {
			select {
			case sub.ch <- table:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context, tables ...string) (<-chan string, func()) {
	wanted := make(map[string]bool, len(tables))
	for _, table := range tables {
		wanted[table] = true
	}

	sub := memorySub{tables: wanted, ch: make(chan string, 16)}
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.subs {
			if f.subs[i].ch == sub.ch {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				close(sub.ch)
				return
			}
		}
	}
	return sub.ch, cancel
}
