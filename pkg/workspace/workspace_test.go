package workspace_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkwellco/easel/pkg/logger"
	"github.com/inkwellco/easel/pkg/project"
	"github.com/inkwellco/easel/pkg/store"
	"github.com/inkwellco/easel/pkg/workspace"
)

var _ = Describe("Detect", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "workspace-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("detects a document project", func() {
		err := os.WriteFile(filepath.Join(tmpDir, "easel.json"), []byte("{}"), 0o644)
		Expect(err).NotTo(HaveOccurred())

		backend, err := workspace.Detect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(backend).To(Equal(workspace.BackendDocument))
	})

	It("detects a table project", func() {
		err := os.WriteFile(filepath.Join(tmpDir, "easel.db"), []byte{}, 0o644)
		Expect(err).NotTo(HaveOccurred())

		backend, err := workspace.Detect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(backend).To(Equal(workspace.BackendSQLite))
	})

	It("prefers the table backend when both files exist", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "easel.json"), []byte("{}"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(tmpDir, "easel.db"), []byte{}, 0o644)).To(Succeed())

		backend, err := workspace.Detect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(backend).To(Equal(workspace.BackendSQLite))
	})

	It("returns NotFoundError for an empty directory", func() {
		_, err := workspace.Detect(tmpDir)
		Expect(store.IsNotFound(err)).To(BeTrue())
	})
})

var _ = Describe("Open", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "workspace-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("opens a named backend without any files on disk", func() {
		st, err := workspace.Open(tmpDir, workspace.BackendSQLite, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer st.Close()

		p, err := st.Init(context.Background(), "fresh")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Meta.Name).To(Equal("fresh"))
	})

	It("rejects unknown backends", func() {
		_, err := workspace.Open(tmpDir, "csv", logger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("detects the backend when none is given", func() {
		st, err := workspace.Open(tmpDir, workspace.BackendDocument, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		_, err = st.Init(context.Background(), "detectme")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Close()).To(Succeed())

		reopened, err := workspace.Open(tmpDir, "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()

		p, err := reopened.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Meta.Name).To(Equal("detectme"))
	})
})

var _ = Describe("backend parity", func() {
	var docDir, dbDir string
	var ctx context.Context

	BeforeEach(func() {
		var err error
		docDir, err = os.MkdirTemp("", "parity-doc-*")
		Expect(err).NotTo(HaveOccurred())
		dbDir, err = os.MkdirTemp("", "parity-db-*")
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(docDir)
		os.RemoveAll(dbDir)
	})

	It("loads identical projects from both backends", func() {
		p := project.New("parity")
		height := 90.0
		p.Viewport = project.Viewport{X: 3, Y: 4, Zoom: 2}
		p.Graph.Nodes = []project.Node{
			{
				ID:       "n1",
				Type:     "text",
				Position: project.Position{X: 1, Y: 2},
				Height:   &height,
				Data:     project.NodeData{Title: "shared", AssetID: "a1", Extra: map[string]any{"tag": "x"}},
			},
			{ID: "n2", Type: "group", Data: project.NodeData{Title: "g"}},
		}
		p.Graph.Edges = []project.Edge{{ID: "e1", Source: "n1", Target: "n2", Label: "in"}}
		p.Assets = map[string]project.Asset{
			"a1": {
				ID:    "a1",
				Value: project.NewText("same everywhere"),
				Sys:   project.Sys{Name: "shared", CreatedAt: 1756400000000, UpdatedAt: 1756400000000},
			},
		}
		p.Settings = map[string]any{"theme": "dark"}

		for dir, backend := range map[string]workspace.Backend{
			docDir: workspace.BackendDocument,
			dbDir:  workspace.BackendSQLite,
		} {
			st, err := workspace.Open(dir, backend, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Save(ctx, p)).To(Succeed())
			Expect(st.Close()).To(Succeed())
		}

		fromDoc, err := workspace.Open(docDir, "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer fromDoc.Close()
		docProject, err := fromDoc.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		fromDB, err := workspace.Open(dbDir, "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer fromDB.Close()
		dbProject, err := fromDB.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(docProject).To(Equal(p))
		Expect(dbProject).To(Equal(p))
		Expect(dbProject).To(Equal(docProject))
	})
})

var _ = Describe("ListProjects", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "workspace-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("lists project subdirectories and skips everything else", func() {
		docDir := filepath.Join(tmpDir, "sketch")
		Expect(os.MkdirAll(docDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(docDir, "easel.json"), []byte("{}"), 0o644)).To(Succeed())

		dbDir := filepath.Join(tmpDir, "storyboard")
		Expect(os.MkdirAll(dbDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dbDir, "easel.db"), []byte{}, 0o644)).To(Succeed())

		// Not a project: empty dir and a stray file.
		Expect(os.MkdirAll(filepath.Join(tmpDir, "notes"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(tmpDir, "readme.txt"), []byte("hi"), 0o644)).To(Succeed())

		projects, err := workspace.ListProjects(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(projects).To(HaveLen(2))

		byName := map[string]workspace.ProjectInfo{}
		for _, p := range projects {
			byName[p.Name] = p
		}
		Expect(byName["sketch"].Backend).To(Equal(workspace.BackendDocument))
		Expect(byName["storyboard"].Backend).To(Equal(workspace.BackendSQLite))
	})

	It("returns an empty list for a missing workspace directory", func() {
		projects, err := workspace.ListProjects(filepath.Join(tmpDir, "nowhere"))
		Expect(err).NotTo(HaveOccurred())
		Expect(projects).To(BeEmpty())
	})
})
