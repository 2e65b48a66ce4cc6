package config

import (
	"log/slog"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/ardnew/q3/fragment"
)

type hclList struct {
	Name      string `hcl:"name,label"`
	Value     string `hcl:"value,optional"`
	File      string `hcl:"file,optional"`
	Separator string `hcl:"separator,optional"`
	Script    string `hcl:"script,optional"`
}

type hclGenerator struct {
	Name   string `hcl:"name,label"`
	Script string `hcl:"script"`
}

type hclQuery struct {
	Name  string `hcl:"name,label"`
	Value string `hcl:"value"`
}

type hclDocument struct {
	Lists      []hclList      `hcl:"list,block"`
	Generators []hclGenerator `hcl:"generator,block"`
	Queries    []hclQuery     `hcl:"query,block"`
}

func decodeHCL(data []byte, filename string, processEnv []string) ([]Entry, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, ErrDecode.Wrap(diags).With(slog.String("format", "hcl"))
	}

	var doc hclDocument

	if diags := gohcl.DecodeBody(file.Body, evalContext(processEnv), &doc); diags.HasErrors() {
		return nil, ErrDecode.Wrap(diags).With(slog.String("format", "hcl"))
	}

	entries := make([]Entry, 0, len(doc.Lists)+len(doc.Generators)+len(doc.Queries))

	for _, b := range doc.Lists {
		entries = append(entries, Entry{
			Name:      b.Name,
			Kind:      fragment.KindList,
			Value:     b.Value,
			File:      b.File,
			Separator: b.Separator,
			Script:    b.Script,
		})
	}

	for _, b := range doc.Generators {
		entries = append(entries, Entry{
			Name:   b.Name,
			Kind:   fragment.KindGenerator,
			Script: b.Script,
		})
	}

	for _, b := range doc.Queries {
		entries = append(entries, Entry{
			Name:  b.Name,
			Kind:  fragment.KindQuery,
			Value: b.Value,
		})
	}

	return entries, nil
}

// evalContext exposes the process environment to HCL expressions as env.KEY.
func evalContext(processEnv []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(processEnv))

	for _, entry := range processEnv {
		if key, value, ok := strings.Cut(entry, "="); ok && key != "" {
			vars[key] = cty.StringVal(value)
		}
	}

	env := cty.MapValEmpty(cty.String)
	if len(vars) > 0 {
		env = cty.MapVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
