package llm

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// defaultPromptTemplate instructs the backend to emit the design
// metadata JSON first and the RTL inside mandatory marker blocks. The
// extractor depends on this contract.
const defaultPromptTemplate = `You are a professional digital design engineer.

USER DESIGN REQUEST:
{{.Request}}

Produce output in this exact order:
1) A JSON object that fully describes all modules.
   - For a multi-module design, return a top-level object:
       {
         "design_name": "top_module_name",
         "hierarchy": {
            "modules": [ ...submodule entries... ],
            "top_module": { ...integration entry... }
         }
       }
   - Every module entry must contain:
       { "name", "description", "ports", "functionality", "rtl_output_file" }
2) Immediately after the JSON, output the Verilog-2005 implementation.
   Delimit each file EXACTLY as shown (these markers are mandatory):

   ---BEGIN <filename>---
   <full synthesizable Verilog-2005 code>
   ---END <filename>---

   A single-file design may use the generic markers instead:

   ---BEGIN VERILOG---
   <full synthesizable Verilog-2005 code>
   ---END VERILOG---

Do not omit the delimiters. Do not include any text outside the JSON and the delimited blocks.`

// Builder renders a design request into the backend prompt.
type Builder interface {
	Build(request string) (string, error)
}

// promptData is the struct passed to prompt templates.
type promptData struct {
	Request string
}

// DefaultBuilder implements Builder with a single text/template.
type DefaultBuilder struct {
	tmpl *template.Template
}

// NewBuilder loads the prompt template. A configured template file
// replaces the built-in prompt; it should reference {{.Request}} and may
// use the string helpers from promptFuncs.
func NewBuilder(cfg config.BackendConfig) (*DefaultBuilder, error) {
	text := defaultPromptTemplate
	if cfg.PromptTemplateFile != "" {
		content, err := os.ReadFile(cfg.PromptTemplateFile)
		if err != nil {
			return nil, domain.NewError("config", cfg.PromptTemplateFile,
				"failed to read prompt template file", err)
		}
		text = string(content)
	}

	tmpl, err := template.New("prompt").Funcs(promptFuncs()).Parse(text)
	if err != nil {
		return nil, domain.NewError("config", cfg.PromptTemplateFile,
			"failed to parse prompt template", err)
	}

	return &DefaultBuilder{tmpl: tmpl}, nil
}

// Build renders the prompt for one design request.
func (b *DefaultBuilder) Build(request string) (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, promptData{Request: request}); err != nil {
		return "", domain.NewError("generate", "", "failed to render prompt template", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
