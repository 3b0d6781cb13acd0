package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkwellco/easel/pkg/dotdir"
)

var _ = Describe("dotdir.Manager session", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadSessionState", func() {
		It("returns nil when no session file exists", func() {
			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("loads a valid session state", func() {
			data := `{"project_path":"/home/me/projects/sketch","backend":"sqlite","opened_at":1756400000000}`
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte(data), 0o644)
			Expect(err).NotTo(HaveOccurred())

			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).NotTo(BeNil())
			Expect(state.ProjectPath).To(Equal("/home/me/projects/sketch"))
			Expect(state.Backend).To(Equal("sqlite"))
			Expect(state.OpenedAt).To(Equal(int64(1756400000000)))
		})

		It("returns error for invalid JSON", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte("not json"), 0o644)
			Expect(err).NotTo(HaveOccurred())

			state, err := m.LoadSessionState(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(state).To(BeNil())
		})
	})

	Describe("SaveSession", func() {
		It("persists session state to disk", func() {
			state := &dotdir.SessionState{
				ProjectPath: "/tmp/projects/storyboard",
				Backend:     "document",
				OpenedAt:    1756400000000,
			}

			err := m.SaveSession(state, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(tmpDir, "session.json"))
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ProjectPath).To(Equal("/tmp/projects/storyboard"))
			Expect(loaded.Backend).To(Equal("document"))
		})

		It("returns error for nil state", func() {
			err := m.SaveSession(nil, tmpDir)
			Expect(err).To(HaveOccurred())
		})

		It("overwrites existing session state", func() {
			first := &dotdir.SessionState{ProjectPath: "/a", Backend: "document"}
			second := &dotdir.SessionState{ProjectPath: "/b", Backend: "sqlite"}

			err := m.SaveSession(first, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = m.SaveSession(second, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ProjectPath).To(Equal("/b"))
			Expect(loaded.Backend).To(Equal("sqlite"))
		})
	})

	Describe("ClearSession", func() {
		It("removes the session file", func() {
			state := &dotdir.SessionState{ProjectPath: "/to/clear"}
			err := m.SaveSession(state, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = m.ClearSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})

		It("succeeds when no session file exists", func() {
			err := m.ClearSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("round-trip", func() {
		It("saves and loads session state correctly", func() {
			state := &dotdir.SessionState{
				ProjectPath: "/home/me/projects/moodboard",
				Backend:     "sqlite",
				OpenedAt:    1756412345678,
			}

			err := m.SaveSession(state, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(state))
		})
	})
})
