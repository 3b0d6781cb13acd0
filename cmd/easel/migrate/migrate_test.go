package migratecmder_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	migratecmder "github.com/inkwellco/easel/cmd/easel/migrate"
	"github.com/inkwellco/easel/pkg/store/document"
	"github.com/inkwellco/easel/pkg/store/sqlite"
)

var _ = Describe("NewMigrateCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := migratecmder.NewMigrateCmd()
		Expect(cmd.Use).To(Equal("migrate <backend>"))
	})

	It("requires exactly one argument", func() {
		cmd := migratecmder.NewMigrateCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"sqlite"})).NotTo(HaveOccurred())
	})

	It("has --dir and --keep-source flags", func() {
		cmd := migratecmder.NewMigrateCmd()
		Expect(cmd.Flags().Lookup("dir")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("keep-source")).NotTo(BeNil())
	})
})

var _ = Describe("Migrate command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "easel-migrate-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.MkdirAll(filepath.Join(tmpDir, ".easel"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	It("migrates a document project to sqlite and removes the source", func() {
		dir := filepath.Join(tmpDir, "sketchbook")
		st := document.New(dir)
		_, err := st.Init(context.Background(), "sketchbook")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Close()).To(Succeed())

		cmd := migratecmder.NewMigrateCmd()
		cmd.SetArgs([]string{"sqlite", "--dir", dir})
		Expect(cmd.Execute()).To(Succeed())

		_, err = os.Stat(filepath.Join(dir, "easel.db"))
		Expect(err).NotTo(HaveOccurred())
		_, err = os.Stat(filepath.Join(dir, "easel.json"))
		Expect(os.IsNotExist(err)).To(BeTrue())

		db := sqlite.New(dir)
		defer db.Close()
		p, err := db.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Meta.Name).To(Equal("sketchbook"))
	})

	It("keeps the source files with --keep-source", func() {
		dir := filepath.Join(tmpDir, "sketchbook")
		st := document.New(dir)
		_, err := st.Init(context.Background(), "sketchbook")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Close()).To(Succeed())

		cmd := migratecmder.NewMigrateCmd()
		cmd.SetArgs([]string{"sqlite", "--dir", dir, "--keep-source"})
		Expect(cmd.Execute()).To(Succeed())

		_, err = os.Stat(filepath.Join(dir, "easel.json"))
		Expect(err).NotTo(HaveOccurred())
		_, err = os.Stat(filepath.Join(dir, "easel.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects unknown backends", func() {
		cmd := migratecmder.NewMigrateCmd()
		cmd.SetArgs([]string{"parchment", "--dir", tmpDir})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown backend"))
	})

	It("refuses to migrate to the current backend", func() {
		dir := filepath.Join(tmpDir, "sketchbook")
		st := sqlite.New(dir)
		_, err := st.Init(context.Background(), "sketchbook")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Close()).To(Succeed())

		cmd := migratecmder.NewMigrateCmd()
		cmd.SetArgs([]string{"sqlite", "--dir", dir})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
