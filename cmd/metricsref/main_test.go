package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/metricsref/internal/common"
)

func createTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func createTestContent(t *testing.T, strict bool) string {
	t.Helper()
	dir := t.TempDir()

	createTestFile(t, filepath.Join(dir, "content", "terms", "core.toml"), `
default_category = "saas-metrics"
default_updated_at = "2025-01-15"

[[terms]]
slug = "arr"
title = "ARR"
description = "Annual recurring revenue."
formula = "ARR = MRR × 12"
related_guide_slugs = ["revenue", "missing-guide"]
related_calculator_slugs = ["arr-calculator"]
`)
	createTestFile(t, filepath.Join(dir, "content", "guides", "saas.toml"), `
[[guides]]
slug = "revenue"
title = "Revenue"
description = "Revenue metrics."
category = "saas-metrics"
updated_at = "2025-05-01"
related_calculator_slugs = []
related_glossary_slugs = ["arr"]

[[guides.sections]]
type = "paragraph"
text = "Body."
`)

	strictVal := "false"
	if strict {
		strictVal = "true"
	}
	cfg := filepath.Join(dir, "metricsref.toml")
	createTestFile(t, cfg, `
[content]
path = "`+filepath.ToSlash(filepath.Join(dir, "content"))+`"
collections = ["core"]

[build]
strict = `+strictVal+`
output_path = "`+filepath.ToSlash(filepath.Join(dir, "dist"))+`"
`)
	return cfg
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("metricsref"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = ctx.Run(&cli.Globals, &runEnv{out: &out, logger: common.NewSilentLogger()})
	return out.String(), err
}

func TestValidateCmd_Lenient(t *testing.T) {
	cfg := createTestContent(t, false)

	out, err := runCLI(t, "--config", cfg, "--quiet", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "1 terms, 1 guides, 1 defects")
	assert.Contains(t, out, "missing-guide")
}

func TestValidateCmd_StrictFails(t *testing.T) {
	cfg := createTestContent(t, true)

	out, err := runCLI(t, "--config", cfg, "--quiet", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content defects")
	assert.Contains(t, out, "missing-guide", "report is printed before failing")
}

func TestValidateCmd_JSON(t *testing.T) {
	cfg := createTestContent(t, false)

	out, err := runCLI(t, "--config", cfg, "-q", "validate", "--json")
	require.NoError(t, err)

	var report struct {
		Terms   int `json:"terms"`
		Defects []struct {
			Kind   string `json:"kind"`
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"defects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Terms)
	require.Len(t, report.Defects, 1)
	assert.Equal(t, "dangling reference", report.Defects[0].Kind)
	assert.Equal(t, "arr", report.Defects[0].Source)
	assert.Equal(t, "missing-guide", report.Defects[0].Target)
}

func TestExportCmd(t *testing.T) {
	cfg := createTestContent(t, true)
	out := filepath.Join(t.TempDir(), "site-data")

	_, err := runCLI(t, "--config", cfg, "-q", "export", "--output", out)
	require.Error(t, err, "strict mode blocks export")

	_, err = os.Stat(filepath.Join(out, "terms.json"))
	assert.True(t, os.IsNotExist(err))

	msg, err := runCLI(t, "--config", cfg, "-q", "export", "--output", out, "--force")
	require.NoError(t, err)
	assert.Contains(t, msg, "exported 1 terms and 1 guides")

	_, err = os.Stat(filepath.Join(out, "terms.json"))
	assert.NoError(t, err)
}

func TestShowTermCmd(t *testing.T) {
	cfg := createTestContent(t, true)

	out, err := runCLI(t, "--config", cfg, "-q", "show", "term", "arr")
	require.NoError(t, err, "lookups ignore strict mode")

	var view struct {
		Term struct {
			Slug                   string   `json:"slug"`
			RelatedCalculatorSlugs []string `json:"related_calculator_slugs"`
		} `json:"term"`
		Collection   string   `json:"collection"`
		Guides       []string `json:"guides"`
		ReferencedBy []string `json:"referenced_by"`
		Dangling     []struct {
			Target string `json:"target"`
		} `json:"dangling"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "arr", view.Term.Slug)
	assert.Equal(t, []string{"arr-calculator"}, view.Term.RelatedCalculatorSlugs)
	assert.Equal(t, "core", view.Collection)
	assert.Equal(t, []string{"revenue"}, view.Guides)
	assert.Equal(t, []string{"revenue"}, view.ReferencedBy)
	require.Len(t, view.Dangling, 1)
	assert.Equal(t, "missing-guide", view.Dangling[0].Target)
}

func TestShowGuideCmd(t *testing.T) {
	cfg := createTestContent(t, false)

	out, err := runCLI(t, "--config", cfg, "-q", "show", "guide", "revenue")
	require.NoError(t, err)

	var view struct {
		Terms        []string `json:"terms"`
		ReferencedBy []string `json:"referenced_by"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, []string{"arr"}, view.Terms)
	assert.Equal(t, []string{"arr"}, view.ReferencedBy)
}

func TestShowCmd_NotFound(t *testing.T) {
	cfg := createTestContent(t, false)

	_, err := runCLI(t, "--config", cfg, "-q", "show", "term", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "metricsref "+common.GetFullVersion())
}
