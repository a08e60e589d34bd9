package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/config"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/internal/infrastructure/redisstore"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	backendAPI  *backend.API
	sessions    *redisstore.SessionRepository
	uploader    helpers.ObjectUploader
	esClient    *elasticsearch.Client
)

func SetConfig(c *config.Config)                  { cfg = c }
func GetConfig() *config.Config                   { return cfg }
func SetLogger(l *logrus.Logger)                  { logger = l }
func GetLogger() *logrus.Logger                   { return logger }
func SetRedis(r *redis.Client)                    { redisClient = r }
func GetRedis() *redis.Client                     { return redisClient }
func SetBackend(a *backend.API)                   { backendAPI = a }
func GetBackend() *backend.API                    { return backendAPI }
func SetSessions(r *redisstore.SessionRepository) { sessions = r }
func GetSessions() *redisstore.SessionRepository  { return sessions }
func SetUploader(u helpers.ObjectUploader)        { uploader = u }
func GetUploader() helpers.ObjectUploader         { return uploader }
func SetES(c *elasticsearch.Client)               { esClient = c }
func GetES() *elasticsearch.Client                { return esClient }
