package statuscmder_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statuscmder "github.com/inkwellco/easel/cmd/easel/status"
	"github.com/inkwellco/easel/pkg/dotdir"
)

var _ = Describe("NewStatusCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := statuscmder.NewStatusCmd()
		Expect(cmd.Use).To(Equal("status"))
	})

	It("accepts zero arguments", func() {
		cmd := statuscmder.NewStatusCmd()
		err := cmd.Args(cmd, []string{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects any arguments", func() {
		cmd := statuscmder.NewStatusCmd()
		err := cmd.Args(cmd, []string{"extra"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Status command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "easel-status-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	It("runs without error when no session state exists", func() {
		// Create a local .easel dir so the manager picks it up
		err := os.MkdirAll(filepath.Join(tmpDir, ".easel"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		cmd := statuscmder.NewStatusCmd()
		cmd.SetArgs([]string{})
		err = cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})

	It("runs without error when session state exists", func() {
		easelDir := filepath.Join(tmpDir, ".easel")
		err := os.MkdirAll(easelDir, 0o755)
		Expect(err).NotTo(HaveOccurred())

		state := &dotdir.SessionState{
			ProjectPath: filepath.Join(tmpDir, "sketchbook"),
			Backend:     "sqlite",
			OpenedAt:    1_700_000_000_000,
		}

		data, err := json.MarshalIndent(state, "", "  ")
		Expect(err).NotTo(HaveOccurred())
		err = os.WriteFile(filepath.Join(easelDir, "session.json"), data, 0o644)
		Expect(err).NotTo(HaveOccurred())

		cmd := statuscmder.NewStatusCmd()
		cmd.SetArgs([]string{})
		err = cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})
})
