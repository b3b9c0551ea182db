package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/internal/graphql"
	"github.com/frahmantamala/ontology-client/internal/graphql/graphqltest"
	"github.com/frahmantamala/ontology-client/internal/storage/gormstore"
	"github.com/frahmantamala/ontology-client/internal/storage/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
)

var _ = Describe("openStore", func() {
	It("opens an in-memory store", func() {
		store, closeFn, err := openStore(internal.StorageConfig{Driver: internal.StorageDriverMemory})

		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeAssignableToTypeOf(&memory.Store{}))
		Expect(closeFn()).To(Succeed())
	})

	It("opens a sqlite file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "session.db")

		store, closeFn, err := openStore(internal.StorageConfig{Driver: internal.StorageDriverSQLite, Source: path})

		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeAssignableToTypeOf(&gormstore.Store{}))
		Expect(store.Set(context.Background(), "k", "v")).To(Succeed())
		Expect(closeFn()).To(Succeed())
	})

	It("rejects unknown drivers", func() {
		_, _, err := openStore(internal.StorageConfig{Driver: "tape"})

		Expect(err).To(MatchError(ContainSubstring("unsupported storage driver")))
	})
})

var _ = Describe("writeMetrics", func() {
	It("renders gathered families in text format", func() {
		reg := prometheus.NewRegistry()
		graphql.NewMetrics(reg)
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
		reg.MustRegister(counter)
		counter.Inc()

		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(writeMetrics(&buf, families)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("test_total 1"))
	})
})

var _ = Describe("helpers", func() {
	It("parses positive ids only", func() {
		id, err := parseID("42")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(42)))

		_, err = parseID("0")
		Expect(err).To(HaveOccurred())
		_, err = parseID("abc")
		Expect(err).To(HaveOccurred())
	})

	It("prefers the sanitized message of application errors", func() {
		err := internal.NewServerError("Server error. Please try again later.", internal.ErrCodeHTTPStatus)

		Expect(errorMessage(err)).To(Equal("Server error. Please try again later."))
	})
})

var _ = Describe("commands", func() {
	var (
		server *graphqltest.Server
		dir    string
		out    *bytes.Buffer
	)

	BeforeEach(func() {
		server = graphqltest.NewServer()
		dir = GinkgoT().TempDir()
		body := "graphql:\n  endpoint: " + server.Endpoint() + "\nstorage:\n  driver: memory\n"
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600)).To(Succeed())
		out = &bytes.Buffer{}
		translatePrefix, translateParams, translateMissing, treeMaxDepth = "", nil, false, -1
		rootCmd.SetOut(out)
		rootCmd.SetErr(&bytes.Buffer{})
	})

	AfterEach(func() {
		server.Close()
		rootCmd.SetArgs(nil)
	})

	execute := func(args ...string) error {
		rootCmd.SetArgs(append([]string{"--config", dir}, args...))
		return rootCmd.Execute()
	}

	It("prints the concept forest", func() {
		server.Respond("Concepts", map[string]any{"concepts": []map[string]any{
			{"id": 1, "path": "animals", "depth": 0, "parentId": nil},
			{"id": 2, "path": "animals/cats", "depth": 1, "parentId": 1},
		}})

		Expect(execute("concepts", "tree", "--max-depth", "-1")).To(Succeed())
		Expect(out.String()).To(Equal("animals (#1)\n  animals/cats (#2)\n"))
	})

	It("interpolates translations", func() {
		server.Respond("Translations", map[string]any{"dictionaries": []map[string]any{
			{"name": "Hello, {name}", "concept": map[string]any{"path": "ui/greeting"}},
		}})

		Expect(execute("translate", "ui/greeting", "--param", "name=Ann")).To(Succeed())
		Expect(out.String()).To(Equal("ui/greeting\tHello, Ann\n"))
	})

	It("lists every key under a prefix", func() {
		server.Respond("Translations", map[string]any{"dictionaries": []map[string]any{
			{"name": "Dashboard", "concept": map[string]any{"path": "ui/nav/dashboard"}},
			{"name": "Concepts", "concept": map[string]any{"path": "ui/nav/concepts"}},
			{"name": "Hello", "concept": map[string]any{"path": "ui/greeting"}},
		}})

		Expect(execute("translate", "--prefix", "ui/nav")).To(Succeed())
		Expect(out.String()).To(Equal("ui/nav/concepts\tConcepts\nui/nav/dashboard\tDashboard\n"))
	})

	It("reports an anonymous session as unauthenticated", func() {
		Expect(execute("auth", "check")).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"authenticated": false`))
		Expect(server.CallCount()).To(Equal(0))
	})
})
