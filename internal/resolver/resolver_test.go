package resolver_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
	"github.com/rtlsmith/rtlsmith/internal/resolver"
)

func newResolver(cfg config.ResolveConfig) *resolver.DefaultResolver {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return resolver.NewResolver(cfg, "default.v", log)
}

var _ = Describe("DefaultResolver", func() {
	var res *resolver.DefaultResolver

	BeforeEach(func() {
		res = newResolver(config.ResolveConfig{})
	})

	Describe("flat designs", func() {
		It("should prefer the block named after the module", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{Name: "alu"}}
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "default.v", Content: "wrong"},
				{Filename: "alu.v", Content: "module alu; endmodule"},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts).To(HaveLen(1))
			Expect(artifacts[0].Path).To(Equal("alu.v"))
			Expect(artifacts[0].Content).To(Equal("module alu; endmodule"))
			Expect(artifacts[0].Module).To(Equal("alu"))
		})

		It("should fall back to the default block", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{Name: "alu"}}
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "default.v", Content: "module alu; endmodule"},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts[0].Path).To(Equal("alu.v"))
			Expect(artifacts[0].Content).To(Equal("module alu; endmodule"))
		})

		It("should fall back to the first-inserted block", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{Name: "alu"}}
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "something_else.v", Content: "first"},
				{Filename: "later.v", Content: "second"},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts[0].Content).To(Equal("first"))
		})

		It("should fall back to inline code when no blocks exist", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{
				Name:       "alu",
				InlineCode: "module alu; endmodule",
			}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Content).To(Equal("module alu; endmodule"))
		})

		It("should degrade to empty content when every source misses", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{Name: "alu"}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts).To(HaveLen(1))
			Expect(artifacts[0].Path).To(Equal("alu.v"))
			Expect(artifacts[0].Content).To(Equal(""))
		})

		It("should let a present but empty block win over inline code", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{
				Name:       "alu",
				InlineCode: "inline",
			}}
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "alu.v", Content: ""},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts[0].Content).To(Equal(""))
		})

		It("should ignore rtl_output_file for flat designs", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{
				Name:          "alu",
				RTLOutputFile: "custom.v",
			}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Path).To(Equal("alu.v"))
		})

		It("should keep hostile module names inside the run directory", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{Name: "../evil"}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Path).To(Equal("_evil.v"))
		})
	})

	Describe("hierarchical designs", func() {
		var spec domain.HierarchicalSpec

		BeforeEach(func() {
			spec = domain.HierarchicalSpec{
				Name: "cpu",
				Modules: []domain.ModuleSpec{
					{Name: "alu"},
					{Name: "regfile", RTLOutputFile: "rf.v"},
				},
				Top: &domain.ModuleSpec{Name: "cpu"},
			}
		})

		It("should resolve submodules first and the top module last", func() {
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts).To(HaveLen(3))
			Expect(artifacts[0].Path).To(Equal("alu.v"))
			Expect(artifacts[1].Path).To(Equal("rf.v"))
			Expect(artifacts[2].Path).To(Equal("cpu.v"))
		})

		It("should prefer inline code over a matching block", func() {
			spec.Modules[0].InlineCode = "module alu; endmodule"
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "alu.v", Content: "from block"},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts[0].Content).To(Equal("module alu; endmodule"))
		})

		It("should use the block matching the filename when inline is empty", func() {
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "rf.v", Content: "module regfile; endmodule"},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts[1].Content).To(Equal("module regfile; endmodule"))
			Expect(artifacts[0].Content).To(Equal(""))
		})

		It("should skip the top artifact when no top module exists", func() {
			spec.Top = nil
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts).To(HaveLen(2))
			Expect(artifacts[1].Path).To(Equal("rf.v"))
		})

		It("should allow nested relative output paths", func() {
			spec.Modules[0].RTLOutputFile = "rtl/alu.v"
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Path).To(Equal("rtl/alu.v"))
		})

		It("should reject absolute output paths", func() {
			spec.Modules[0].RTLOutputFile = "/etc/alu.v"
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Path).To(Equal("alu.v"))
		})

		It("should reject parent traversal in output paths", func() {
			spec.Modules[0].RTLOutputFile = "../alu.v"
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Path).To(Equal("alu.v"))
		})

		It("should sanitize the fallback name after rejecting an output path", func() {
			spec.Modules[0].Name = "rtl/alu"
			spec.Modules[0].RTLOutputFile = "/etc/alu.v"
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Path).To(Equal("rtl_alu.v"))
		})
	})

	Describe("parse failures", func() {
		It("should resolve a placeholder artifact from code blocks", func() {
			spec := domain.ParseFailureSpec{Raw: "garbage"}
			segs := &domain.Segments{Blocks: []domain.CodeBlock{
				{Filename: "default.v", Content: "module m; endmodule"},
			}}
			artifacts := res.Resolve(spec, segs)
			Expect(artifacts).To(HaveLen(1))
			Expect(artifacts[0].Path).To(Equal(domain.AutoModuleName + ".v"))
			Expect(artifacts[0].Content).To(Equal("module m; endmodule"))
		})

		It("should degrade to an empty placeholder artifact", func() {
			artifacts := res.Resolve(domain.ParseFailureSpec{Raw: "x"}, &domain.Segments{})
			Expect(artifacts).To(HaveLen(1))
			Expect(artifacts[0].Content).To(Equal(""))
		})
	})

	Describe("content hooks", func() {
		It("should strip markdown fences when enabled", func() {
			res = newResolver(config.ResolveConfig{StripFences: true})
			spec := domain.FlatSpec{Module: domain.ModuleSpec{
				Name:       "alu",
				InlineCode: "```verilog\nmodule alu; endmodule\n```",
			}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Content).To(Equal("module alu; endmodule"))
		})

		It("should keep fences when the hook is disabled", func() {
			spec := domain.FlatSpec{Module: domain.ModuleSpec{
				Name:       "alu",
				InlineCode: "```verilog\nmodule alu; endmodule\n```",
			}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Content).To(ContainSubstring("```"))
		})

		It("should drop duplicate port declarations when enabled", func() {
			res = newResolver(config.ResolveConfig{CleanupPorts: true})
			code := "module alu;\ninput a;\ninput a;\nendmodule"
			spec := domain.FlatSpec{Module: domain.ModuleSpec{Name: "alu", InlineCode: code}}
			artifacts := res.Resolve(spec, &domain.Segments{})
			Expect(artifacts[0].Content).To(Equal("module alu;\ninput a;\nendmodule"))
		})
	})
})

var _ = Describe("StripFences", func() {
	It("should remove fence lines and keep the body", func() {
		out := resolver.StripFences("```verilog\nmodule m; endmodule\n```")
		Expect(out).To(Equal("module m; endmodule"))
	})

	It("should leave unfenced code untouched", func() {
		out := resolver.StripFences("module m; endmodule")
		Expect(out).To(Equal("module m; endmodule"))
	})
})

var _ = Describe("CleanupPortDecls", func() {
	It("should keep the first declaration of each signal", func() {
		code := "input clk;\ninput rst;\ninput clk;"
		Expect(resolver.CleanupPortDecls(code)).To(Equal("input clk;\ninput rst;"))
	})

	It("should keep lines without port keywords", func() {
		code := "module m;\nassign x = y;\nendmodule"
		Expect(resolver.CleanupPortDecls(code)).To(Equal(code))
	})
})
