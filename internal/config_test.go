package internal_test

import (
	"time"

	"github.com/frahmantamala/ontology-client/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(internal.DefaultConfig().Validate()).To(Succeed())
	})

	It("collects every failing section", func() {
		cfg := internal.DefaultConfig()
		cfg.GraphQL.Endpoint = "/graphql"
		cfg.Storage.Driver = internal.StorageDriverRedis
		cfg.Observability.Logging.Level = "loud"

		err := cfg.Validate()

		Expect(err).To(MatchError(ContainSubstring("graphql config")))
		Expect(err).To(MatchError(ContainSubstring("redis_addr is required")))
		Expect(err).To(MatchError(ContainSubstring(`unsupported level "loud"`)))
	})

	It("requires a source for SQL drivers", func() {
		s := internal.StorageConfig{Driver: internal.StorageDriverPostgres}

		Expect(s.Validate()).To(MatchError("source is required for driver postgres"))
	})

	It("rejects a negative timeout", func() {
		g := internal.GraphQLConfig{Endpoint: "http://localhost/graphql", Timeout: -time.Second}

		Expect(g.Validate()).To(MatchError("timeout cannot be negative"))
	})

	It("loads overrides from the environment", func() {
		GinkgoT().Setenv("ONTOLOGY_STORAGE_DRIVER", "redis")
		GinkgoT().Setenv("ONTOLOGY_STORAGE_REDIS_ADDR", "localhost:6379")
		GinkgoT().Setenv("ONTOLOGY_STORAGE_REDIS_DB", "3")
		GinkgoT().Setenv("ONTOLOGY_I18N_CACHE_TTL", "30s")
		GinkgoT().Setenv("ONTOLOGY_METRICS_ENABLED", "1")

		cfg := internal.LoadConfigFromEnv()

		Expect(cfg.Storage.Driver).To(Equal("redis"))
		Expect(cfg.Storage.RedisDB).To(Equal(3))
		Expect(cfg.I18n.CacheTTL).To(Equal(30 * time.Second))
		Expect(cfg.Observability.Metrics.Enabled).To(BeTrue())
		Expect(cfg.GraphQL.Endpoint).To(Equal(internal.DefaultConfig().GraphQL.Endpoint))
	})
})
