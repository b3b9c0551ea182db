package i18n

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/ontology-client/internal/concept"
	"github.com/frahmantamala/ontology-client/internal/graphql"
	gocache "github.com/patrickmn/go-cache"
)

const (
	translationsQuery = `query Translations($languageId: Int!) {
	dictionaries(languageId: $languageId) {
		name
		concept {
			path
		}
	}
}`

	languagesQuery = `query Languages {
	languages {
		id
		code
		name
	}
}`
)

type TokenSource interface {
	AccessToken(ctx context.Context) string
}

type Config struct {
	DefaultLanguageID int64
	CacheTTL          time.Duration
}

// Service loads translations once per language and caches them in memory.
type Service struct {
	client          graphql.Requester
	tokens          TokenSource
	cache           *gocache.Cache
	ttl             time.Duration
	defaultLanguage int64
	logger          *slog.Logger
}

func NewService(client graphql.Requester, tokens TokenSource, config Config, logger *slog.Logger) *Service {
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Service{
		client:          client,
		tokens:          tokens,
		cache:           gocache.New(ttl, 10*time.Minute),
		ttl:             ttl,
		defaultLanguage: config.DefaultLanguageID,
		logger:          logger,
	}
}

// Translations returns the Map for languageID. Zero selects the default language.
func (s *Service) Translations(ctx context.Context, languageID int64) (Map, error) {
	if languageID == 0 {
		languageID = s.defaultLanguage
	}
	key := cacheKey(languageID)

	if cached, ok := s.cache.Get(key); ok {
		return Merge(cached.(Map)), nil
	}

	out, err := graphql.Do[struct {
		Dictionaries []Entry `json:"dictionaries"`
	}](ctx, s.client, translationsQuery, map[string]any{"languageId": languageID}, s.tokens.AccessToken(ctx))
	if err != nil {
		s.logger.Error("failed to load translations", "language_id", languageID, "error", err)
		return nil, err
	}

	m := FromDictionaries(out.Dictionaries, s.logger)
	s.cache.Set(key, m, s.ttl)
	s.logger.Debug("translations loaded", "language_id", languageID, "keys", len(m))
	return Merge(m), nil
}

func (s *Service) Invalidate(languageID int64) {
	if languageID == 0 {
		languageID = s.defaultLanguage
	}
	s.cache.Delete(cacheKey(languageID))
}

func (s *Service) Languages(ctx context.Context) ([]concept.Language, error) {
	out, err := graphql.Do[struct {
		Languages []concept.Language `json:"languages"`
	}](ctx, s.client, languagesQuery, nil, s.tokens.AccessToken(ctx))
	if err != nil {
		return nil, err
	}
	return out.Languages, nil
}

func cacheKey(languageID int64) string {
	return "lang:" + strconv.FormatInt(languageID, 10)
}
