package projectscmder_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	projectscmder "github.com/inkwellco/easel/cmd/easel/projects"
	"github.com/inkwellco/easel/pkg/store/document"
	"github.com/inkwellco/easel/pkg/store/sqlite"
)

var _ = Describe("NewProjectsCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := projectscmder.NewProjectsCmd()
		Expect(cmd.Use).To(Equal("projects"))
	})

	It("has list, recent, rename, and delete subcommands", func() {
		cmd := projectscmder.NewProjectsCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("list", "recent", "rename", "delete"))
	})
})

var _ = Describe("Projects command execution", func() {
	var (
		tmpDir  string
		origDir string
		ws      string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "easel-projects-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.MkdirAll(filepath.Join(tmpDir, ".easel"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		ws = filepath.Join(tmpDir, "workspace")
		err = os.MkdirAll(ws, 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	seedProject := func(name string) string {
		dir := filepath.Join(ws, name)
		st := sqlite.New(dir)
		_, err := st.Init(context.Background(), name)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		ExpectWithOffset(1, st.Close()).To(Succeed())
		return dir
	}

	Describe("list subcommand", func() {
		It("runs without error on an empty workspace", func() {
			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"list", "--workspace-dir", ws})
			Expect(cmd.Execute()).To(Succeed())
		})

		It("lists projects of both backends", func() {
			seedProject("alpha")

			docDir := filepath.Join(ws, "beta")
			st := document.New(docDir)
			_, err := st.Init(context.Background(), "beta")
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Close()).To(Succeed())

			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"list", "--workspace-dir", ws})
			Expect(cmd.Execute()).To(Succeed())
		})
	})

	Describe("recent subcommand", func() {
		It("runs without error when nothing was opened yet", func() {
			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"recent"})
			Expect(cmd.Execute()).To(Succeed())
		})
	})

	Describe("rename subcommand", func() {
		It("renames a project in place", func() {
			dir := seedProject("alpha")

			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"rename", "Alpha Revisited", "--dir", dir})
			Expect(cmd.Execute()).To(Succeed())

			st := sqlite.New(dir)
			p, err := st.Load(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Close()).To(Succeed())
			Expect(p.Meta.Name).To(Equal("Alpha Revisited"))
		})

		It("fails when no project can be resolved", func() {
			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"rename", "Nameless", "--dir", filepath.Join(ws, "ghost")})
			Expect(cmd.Execute()).To(HaveOccurred())
		})
	})

	Describe("delete subcommand", func() {
		It("refuses to delete without --force", func() {
			dir := seedProject("alpha")

			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"delete", dir})
			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("--force"))

			_, err = os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("deletes a project with --force", func() {
			dir := seedProject("alpha")

			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"delete", dir, "--force"})
			Expect(cmd.Execute()).To(Succeed())

			_, err := os.Stat(dir)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("refuses to delete a directory that is not a project", func() {
			dir := filepath.Join(ws, "documents")
			Expect(os.MkdirAll(dir, 0o755)).To(Succeed())

			cmd := projectscmder.NewProjectsCmd()
			cmd.SetArgs([]string{"delete", dir, "--force"})
			Expect(cmd.Execute()).To(HaveOccurred())

			_, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
