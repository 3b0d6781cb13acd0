package document_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
	"github.com/inkwellco/easel/pkg/store/document"
)

var _ = Describe("Store", func() {
	var (
		tmpDir string
		st     *document.Store
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "document-test-*")
		Expect(err).NotTo(HaveOccurred())

		st = document.New(tmpDir, document.WithLogger(logger.Nop()))
		ctx = context.Background()
	})

	AfterEach(func() {
		st.Close()
		os.RemoveAll(tmpDir)
	})

	// sample builds a project exercising every persisted shape: nodes with
	// optional fields, edges, assets of each kind, and free-form settings.
	sample := func() *project.Project {
		p := project.New("sample")
		width := 320.0

		p.Viewport = project.Viewport{X: -140.5, Y: 33, Zoom: 0.75}
		p.Graph.Nodes = []project.Node{
			{
				ID:       "n1",
				Type:     "text",
				Position: project.Position{X: 100, Y: 200},
				Width:    &width,
				Style:    map[string]any{"color": "teal"},
				Data: project.NodeData{
					Title:   "chapter one",
					AssetID: "a-text",
					Extra:   map[string]any{"pinned": true},
				},
			},
			{
				ID:       "n2",
				Type:     "group",
				Position: project.Position{X: 0, Y: 0},
				Data:     project.NodeData{Title: "act i"},
			},
			{
				ID:       "n3",
				Type:     "record",
				Position: project.Position{X: 40, Y: 40},
				ParentID: "n2",
				Extent:   "parent",
				Data:     project.NodeData{Title: "character", AssetID: "a-record", Collapsed: true},
			},
		}
		p.Graph.Edges = []project.Edge{
			{ID: "e1", Source: "n1", Target: "n3", Label: "describes", Animated: true},
		}
		p.Assets = map[string]project.Asset{
			"a-text": {
				ID:    "a-text",
				Value: project.NewText("It was a dark and stormy night."),
				Sys:   project.Sys{Name: "chapter one", CreatedAt: 1756400000000, UpdatedAt: 1756400000000},
			},
			"a-record": {
				ID: "a-record",
				Value: project.Record{
					Fields: map[string]any{"name": "Ines", "age": float64(34)},
				},
				Sys: project.Sys{Name: "character", CreatedAt: 1756400000001, UpdatedAt: 1756400000002},
			},
		}
		p.Settings = map[string]any{"grid": true, "snap": float64(8)}
		return p
	}

	Describe("Init", func() {
		It("creates a fresh project and writes the document", func() {
			p, err := st.Init(ctx, "fresh")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Meta.Name).To(Equal("fresh"))
			Expect(p.Meta.ID).NotTo(BeEmpty())
			Expect(p.Viewport).To(Equal(project.DefaultViewport()))

			_, err = os.Stat(filepath.Join(tmpDir, "easel.json"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("loads the existing project instead of overwriting", func() {
			first, err := st.Init(ctx, "original")
			Expect(err).NotTo(HaveOccurred())

			second, err := st.Init(ctx, "impostor")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Meta.Name).To(Equal("original"))
			Expect(second.Meta.ID).To(Equal(first.Meta.ID))
		})

		It("creates the project directory when missing", func() {
			nested := document.New(filepath.Join(tmpDir, "deep", "nested"), document.WithLogger(logger.Nop()))
			_, err := nested.Init(ctx, "nested")
			Expect(err).NotTo(HaveOccurred())
			Expect(document.Exists(filepath.Join(tmpDir, "deep", "nested"))).To(BeTrue())
		})
	})

	Describe("Save and Load", func() {
		It("round-trips the full project", func() {
			p := sample()
			Expect(st.Save(ctx, p)).To(Succeed())

			loaded, err := st.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(p))
		})

		It("replaces the previous document wholesale", func() {
			p := sample()
			Expect(st.Save(ctx, p)).To(Succeed())

			p.Graph.Nodes = p.Graph.Nodes[:1]
			p.Graph.Edges = nil
			delete(p.Assets, "a-record")
			p.Graph.Nodes[0].Data.AssetID = "a-text"
			Expect(st.Save(ctx, p)).To(Succeed())

			loaded, err := st.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Graph.Nodes).To(HaveLen(1))
			Expect(loaded.Assets).NotTo(HaveKey("a-record"))
		})

		It("leaves no temp file behind after a save", func() {
			Expect(st.Save(ctx, sample())).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, "easel.json.tmp"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("ignores a stray temp file from an interrupted save", func() {
			Expect(st.Save(ctx, sample())).To(Succeed())

			// Simulate a crash that left a partial temp file behind.
			Expect(os.WriteFile(filepath.Join(tmpDir, "easel.json.tmp"), []byte(`{"version":`), 0o644)).To(Succeed())

			loaded, err := st.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Meta.Name).To(Equal("sample"))
		})

		It("returns NotFoundError when nothing was ever saved", func() {
			_, err := st.Load(ctx)
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("rejects a document whose node references a missing asset", func() {
			p := sample()
			p.Graph.Nodes[0].Data.AssetID = "gone"

			// Write the broken document directly; Save would happily persist
			// it, the check belongs to Load.
			data, err := json.Marshal(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.WriteFile(filepath.Join(tmpDir, "easel.json"), data, 0o644)).To(Succeed())

			_, err = st.Load(ctx)
			var cerr store.ConsistencyError
			Expect(errors.As(err, &cerr)).To(BeTrue())
		})

		It("rejects a document whose edge references a missing node", func() {
			p := sample()
			p.Graph.Edges = append(p.Graph.Edges, project.Edge{ID: "e2", Source: "n1", Target: "nope"})

			data, err := json.Marshal(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.WriteFile(filepath.Join(tmpDir, "easel.json"), data, 0o644)).To(Succeed())

			_, err = st.Load(ctx)
			var cerr store.ConsistencyError
			Expect(errors.As(err, &cerr)).To(BeTrue())
		})
	})

	Describe("Autosave", func() {
		It("is preferred over the canonical document on load", func() {
			p := sample()
			Expect(st.Save(ctx, p)).To(Succeed())

			p.Graph.Nodes[0].Data.Title = "chapter one, revised"
			st.Autosave(ctx, p)

			loaded, err := st.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Graph.Nodes[0].Data.Title).To(Equal("chapter one, revised"))
		})

		It("is removed by the next clean save", func() {
			p := sample()
			Expect(st.Save(ctx, p)).To(Succeed())
			st.Autosave(ctx, p)

			_, err := os.Stat(filepath.Join(tmpDir, "easel.json.autosave"))
			Expect(err).NotTo(HaveOccurred())

			Expect(st.Save(ctx, p)).To(Succeed())

			_, err = os.Stat(filepath.Join(tmpDir, "easel.json.autosave"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("alone is enough to recover a project", func() {
			// Hot exit: the session never completed a clean save.
			p := sample()
			Expect(os.MkdirAll(tmpDir, 0o755)).To(Succeed())
			st.Autosave(ctx, p)

			loaded, err := st.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(p))
		})
	})

	Describe("Exists", func() {
		It("is false for an untouched directory", func() {
			Expect(document.Exists(tmpDir)).To(BeFalse())
		})

		It("is true once a document is saved", func() {
			Expect(st.Save(ctx, sample())).To(Succeed())
			Expect(document.Exists(tmpDir)).To(BeTrue())
		})

		It("is true with only an autosave present", func() {
			st.Autosave(ctx, sample())
			Expect(document.Exists(tmpDir)).To(BeTrue())
		})
	})
})
