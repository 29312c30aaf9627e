package workflow_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rtlsmith/rtlsmith/internal/workflow"
)

var _ = Describe("Workflow", func() {
	Describe("NewID", func() {
		It("should mint unique identifiers", func() {
			a := workflow.NewID()
			b := workflow.NewID()
			Expect(a).ToNot(BeEmpty())
			Expect(a).ToNot(Equal(b))
		})
	})

	Describe("SafeName", func() {
		It("should pass ordinary module names through", func() {
			Expect(workflow.SafeName("alu")).To(Equal("alu"))
			Expect(workflow.SafeName("cpu_top-2.1")).To(Equal("cpu_top-2.1"))
		})

		It("should flatten path separators to underscores", func() {
			Expect(workflow.SafeName("rtl/alu")).To(Equal("rtl_alu"))
			Expect(workflow.SafeName("../evil")).To(Equal("_evil"))
			Expect(workflow.SafeName("/tmp/alu")).To(Equal("_tmp_alu"))
		})

		It("should fall back to the auto module name when nothing survives", func() {
			Expect(workflow.SafeName("")).To(Equal("auto_module"))
			Expect(workflow.SafeName("..")).To(Equal("auto_module"))
		})
	})

	Describe("Paths", func() {
		var paths workflow.Paths

		BeforeEach(func() {
			paths = workflow.Paths{Root: "workflows", ID: "wf-123"}
		})

		It("should place the run directory under the root", func() {
			Expect(paths.Dir()).To(Equal(filepath.Join("workflows", "wf-123")))
		})

		It("should resolve well-known artifact paths", func() {
			Expect(paths.RawOutput()).To(Equal(filepath.Join("workflows", "wf-123", "llm_raw_output.txt")))
			Expect(paths.CompileLog()).To(Equal(filepath.Join("workflows", "wf-123", "compile.log")))
			Expect(paths.SpecFile("alu")).To(Equal(filepath.Join("workflows", "wf-123", "alu_spec.json")))
			Expect(paths.Artifact("alu.v")).To(Equal(filepath.Join("workflows", "wf-123", "alu.v")))
		})

		It("should keep spec files for hostile names inside the run directory", func() {
			Expect(paths.SpecFile("../alu")).To(Equal(filepath.Join("workflows", "wf-123", "_alu_spec.json")))
		})

		It("should create the run directory", func() {
			tmp, err := os.MkdirTemp("", "rtlsmith-workflow-*")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(tmp)

			p := workflow.Paths{Root: tmp, ID: "run-1"}
			Expect(p.EnsureDir()).To(Succeed())
			info, err := os.Stat(p.Dir())
			Expect(err).ToNot(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})
	})
})
