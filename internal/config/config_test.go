package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rtlsmith/rtlsmith/internal/config"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Backend.BaseURL).To(Equal("http://localhost:8000/v1"))
			Expect(cfg.Backend.Model).To(Equal("qwen2.5-coder"))
			Expect(cfg.Workflow.RootDir).To(Equal("workflows"))
			// Defaults should survive a partial file
			Expect(cfg.Extract.DefaultKey).To(Equal("default.v"))
			Expect(cfg.Check.Tool).To(Equal("iverilog"))
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Backend.Model).To(Equal("deepseek-coder"))
			Expect(cfg.Backend.Timeout).To(Equal("90s"))
			Expect(cfg.Backend.PromptTemplateFile).To(Equal("prompts/design.tmpl"))
			Expect(cfg.Extract.DefaultKey).To(Equal("top.v"))
			Expect(cfg.Extract.FencedFallback).To(BeTrue())
			Expect(cfg.Extract.FileBlocks).To(BeTrue())
			Expect(cfg.Resolve.StripFences).To(BeTrue())
			Expect(cfg.Resolve.CleanupPorts).To(BeTrue())
			Expect(cfg.Check.Timeout).To(Equal("45s"))
			Expect(cfg.Registry.Path).To(Equal("state/registry.db"))
			Expect(cfg.Logging.Level).To(Equal("debug"))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(os.TempDir(), "invalid_rtlsmith.yaml")
			err := os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)
			Expect(err).ToNot(HaveOccurred())
			defer os.Remove(tmpFile)

			_, loadErr := config.Load(tmpFile)
			Expect(loadErr).To(HaveOccurred())
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Backend.BaseURL).To(Equal("http://localhost:8000/v1"))
			Expect(cfg.Backend.APIKeyEnv).To(Equal("RTLSMITH_API_KEY"))
			Expect(cfg.Workflow.RootDir).To(Equal("workflows"))
			Expect(cfg.Extract.DefaultKey).To(Equal("default.v"))
			Expect(cfg.Extract.FencedFallback).To(BeFalse())
			Expect(cfg.Check.IsEnabled()).To(BeTrue())
			Expect(cfg.Check.Tool).To(Equal("iverilog"))
			Expect(cfg.Check.OutputFile).To(Equal("design.out"))
			Expect(cfg.Registry.IsEnabled()).To(BeTrue())
			Expect(cfg.Registry.Path).To(Equal("registry.db"))
			Expect(cfg.Logging.Level).To(Equal("info"))
		})
	})

	Describe("Timeout accessors", func() {
		It("should parse configured durations", func() {
			cfg := config.DefaultConfig()
			cfg.Backend.Timeout = "45s"
			cfg.Check.Timeout = "10s"
			Expect(cfg.Backend.RequestTimeout()).To(Equal(45 * time.Second))
			Expect(cfg.Check.CheckTimeout()).To(Equal(10 * time.Second))
		})

		It("should fall back to defaults for malformed durations", func() {
			cfg := config.DefaultConfig()
			cfg.Backend.Timeout = "soon"
			cfg.Check.Timeout = ""
			Expect(cfg.Backend.RequestTimeout()).To(Equal(120 * time.Second))
			Expect(cfg.Check.CheckTimeout()).To(Equal(30 * time.Second))
		})
	})

	Describe("Enabled accessors", func() {
		It("should treat unset as enabled", func() {
			cfg := config.DefaultConfig()
			cfg.Check.Enabled = nil
			cfg.Registry.Enabled = nil
			Expect(cfg.Check.IsEnabled()).To(BeTrue())
			Expect(cfg.Registry.IsEnabled()).To(BeTrue())
		})

		It("should honor explicit false", func() {
			cfg := config.DefaultConfig()
			disabled := false
			cfg.Check.Enabled = &disabled
			cfg.Registry.Enabled = &disabled
			Expect(cfg.Check.IsEnabled()).To(BeFalse())
			Expect(cfg.Registry.IsEnabled()).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		It("should pass for valid config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should fail if base_url is empty", func() {
			cfg := config.DefaultConfig()
			cfg.Backend.BaseURL = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend.base_url"))
		})

		It("should fail if workflow root is empty", func() {
			cfg := config.DefaultConfig()
			cfg.Workflow.RootDir = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("workflow.root_dir"))
		})

		It("should fail if default key is empty", func() {
			cfg := config.DefaultConfig()
			cfg.Extract.DefaultKey = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("extract.default_key"))
		})

		It("should fail for malformed backend timeout", func() {
			cfg := config.DefaultConfig()
			cfg.Backend.Timeout = "two minutes"
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend.timeout"))
		})

		It("should fail if check tool is empty while check is enabled", func() {
			cfg := config.DefaultConfig()
			cfg.Check.Tool = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("check.tool"))
		})

		It("should not require check fields when check is disabled", func() {
			cfg := config.DefaultConfig()
			disabled := false
			cfg.Check.Enabled = &disabled
			cfg.Check.Tool = ""
			cfg.Check.OutputFile = ""
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should fail if registry path is empty while registry is enabled", func() {
			cfg := config.DefaultConfig()
			cfg.Registry.Path = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("registry.path"))
		})

		It("should fail for invalid log level", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = "verbose"
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logging.level"))
		})
	})
})
