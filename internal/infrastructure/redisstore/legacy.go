package redisstore

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/pkg/helpers"
)

// LegacyFormPattern matches the form cache written before drafts moved to
// doki:draft:*.
const LegacyFormPattern = "doki:legacy-form:*"

// LegacyPurger removes the legacy form cache once per process no matter
// how often Run is called.
type LegacyPurger struct {
	rdb    *redis.Client
	logger *logrus.Logger
	once   sync.Once
	// Removed is the number of keys deleted by the single run.
	Removed int
	err     error
}

func NewLegacyPurger(rdb *redis.Client, logger *logrus.Logger) *LegacyPurger {
	return &LegacyPurger{rdb: rdb, logger: logger}
}

func (p *LegacyPurger) Run(ctx context.Context) error {
	p.once.Do(func() {
		p.err = helpers.RedisScanKeys(ctx, p.rdb, LegacyFormPattern, func(keys []string) error {
			n, err := p.rdb.Del(ctx, keys...).Result()
			p.Removed += int(n)
			return err
		})
		if p.err != nil {
			helpers.LogError(p.logger, "legacy form purge failed", p.err, nil)
			return
		}
		p.logger.WithField("removed", p.Removed).Info("legacy form cache purged")
	})
	return p.err
}
